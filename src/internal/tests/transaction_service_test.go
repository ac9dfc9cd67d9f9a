package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/services"
)

func seedHistory(t *testing.T, f *fixture) {
	t.Helper()

	base := time.Date(2023, 10, 15, 10, 30, 0, 0, time.UTC)
	records := []struct {
		legacyID  string
		from      string
		to        string
		amount    string
		timestamp time.Time
	}{
		// user001 sends, then receives, then two records share a timestamp.
		{"TX001", "User1@smartbanka.com", "User2@smartbanka.com", "5000000", base},
		{"TX002", "User2@smartbanka.com", "User1@smartbanka.com", "2000000", base.Add(24 * time.Hour)},
		{"TX003", "User1@smartbanka.com", "User2@smartbanka.com", "1000000", base.Add(48 * time.Hour)},
		{"TX004", "User2@smartbanka.com", "User1@smartbanka.com", "3000000", base.Add(48 * time.Hour)},
	}
	accounts := map[string]string{
		"User1@smartbanka.com": "100000000001",
		"User2@smartbanka.com": "100000000002",
	}

	for _, r := range records {
		_, err := f.transactions.Create(context.Background(), domain.Transaction{
			LegacyTransactionID: r.legacyID,
			SenderLedgerID:      r.from,
			SenderAccount:       accounts[r.from],
			RecipientLedgerID:   r.to,
			RecipientAccount:    accounts[r.to],
			Amount:              decimal.RequireFromString(r.amount),
			Currency:            domain.DefaultCurrency,
			Status:              domain.TransactionStatusCompleted,
			Type:                domain.TransactionTypeTransfer,
			Timestamp:           r.timestamp,
			Description:         "seeded history",
		})
		require.NoError(t, err)
	}
}

func TestListForUserOrdersNewestFirstWithInsertionTieBreak(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	response, err := svc.ListForUser(context.Background(), "user001", "")
	require.NoError(t, err)

	ids := make([]string, 0, len(response.Data.Transactions))
	for _, tx := range response.Data.Transactions {
		ids = append(ids, tx.LegacyTransactionID)
	}
	// TX003 and TX004 share a timestamp; the later insertion wins the tie.
	assert.Equal(t, []string{"TX004", "TX003", "TX002", "TX001"}, ids)
}

func TestListForUserProjectsDirectionPerViewer(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	response, err := svc.ListForUser(context.Background(), "user001", "")
	require.NoError(t, err)

	byID := map[string]string{}
	for _, tx := range response.Data.Transactions {
		byID[tx.LegacyTransactionID] = tx.Direction
	}
	assert.Equal(t, "send", byID["TX001"])
	assert.Equal(t, "receive", byID["TX002"])

	// The same record reads the other way round for the counterparty.
	other, err := svc.ListForUser(context.Background(), "user002", "")
	require.NoError(t, err)
	otherByID := map[string]string{}
	for _, tx := range other.Data.Transactions {
		otherByID[tx.LegacyTransactionID] = tx.Direction
	}
	assert.Equal(t, "receive", otherByID["TX001"])
	assert.Equal(t, "send", otherByID["TX002"])
}

func TestListForUserSignsAmountsForViewer(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	response, err := svc.ListForUser(context.Background(), "user001", "")
	require.NoError(t, err)

	for _, tx := range response.Data.Transactions {
		switch tx.Direction {
		case "send":
			assert.True(t, tx.Amount.IsNegative(), "sent amount must carry a negative sign: %s", tx.LegacyTransactionID)
		case "receive":
			assert.True(t, tx.Amount.IsPositive(), "received amount must carry a positive sign: %s", tx.LegacyTransactionID)
		}
		assert.True(t, tx.Magnitude.IsPositive())
		assert.True(t, tx.Amount.Abs().Equal(tx.Magnitude))
	}
}

func TestListForUserDirectionFilter(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	sent, err := svc.ListForUser(context.Background(), "user001", "send")
	require.NoError(t, err)
	require.Len(t, sent.Data.Transactions, 2)
	for _, tx := range sent.Data.Transactions {
		assert.Equal(t, "send", tx.Direction)
	}

	received, err := svc.ListForUser(context.Background(), "user001", "receive")
	require.NoError(t, err)
	require.Len(t, received.Data.Transactions, 2)
	for _, tx := range received.Data.Transactions {
		assert.Equal(t, "receive", tx.Direction)
	}

	all, err := svc.ListForUser(context.Background(), "user001", "all")
	require.NoError(t, err)
	assert.Len(t, all.Data.Transactions, len(sent.Data.Transactions)+len(received.Data.Transactions))
}

func TestListForUserRejectsUnknownDirection(t *testing.T) {
	f := newFixture(t)
	svc := services.NewTransactionService(f.users, f.transactions)

	_, err := svc.ListForUser(context.Background(), "user001", "sideways")
	require.Error(t, err)
}

func TestListForUserAcceptsLedgerIdentity(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	response, err := svc.ListForUser(context.Background(), "User1@smartbanka.com", "")
	require.NoError(t, err)
	assert.Equal(t, "user001", response.Data.UserID)
	assert.Len(t, response.Data.Transactions, 4)
}

func TestListForUserUnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := services.NewTransactionService(f.users, f.transactions)

	_, err := svc.ListForUser(context.Background(), "user999", "")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListForAccountResolvesCounterpartyNames(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	svc := services.NewTransactionService(f.users, f.transactions)

	response, err := svc.ListForAccount(context.Background(), "100000000001", "")
	require.NoError(t, err)
	require.NotEmpty(t, response.Data.Transactions)

	first := response.Data.Transactions[0]
	assert.Equal(t, "Tran Thi B", first.SenderName)
	assert.Equal(t, "Nguyen Van A", first.RecipientName)
}

func TestListForAccountRejectsMalformedNumber(t *testing.T) {
	f := newFixture(t)
	svc := services.NewTransactionService(f.users, f.transactions)

	_, err := svc.ListForAccount(context.Background(), "12345", "")
	require.Error(t, err)
}
