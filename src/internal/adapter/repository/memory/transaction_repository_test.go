package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

func seedTransaction(t *testing.T, repo *TransactionRepository, legacyID string, status domain.TransactionStatus, ts time.Time) domain.Transaction {
	t.Helper()
	tx, err := repo.Create(context.Background(), domain.Transaction{
		LegacyTransactionID: legacyID,
		SenderLedgerID:      "u1",
		SenderAccount:       "100000000001",
		RecipientLedgerID:   "u2",
		RecipientAccount:    "100000000002",
		Amount:              decimal.RequireFromString("100"),
		Currency:            domain.DefaultCurrency,
		Status:              status,
		Type:                domain.TransactionTypeTransfer,
		Timestamp:           ts,
	})
	require.NoError(t, err)
	return tx
}

func TestGetByIDAcceptsLegacyIdentifier(t *testing.T) {
	repo := NewTransactionRepository()
	created := seedTransaction(t, repo, "TX001", domain.TransactionStatusPending, time.Now().UTC())

	byID, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	byLegacy, err := repo.GetByID(context.Background(), "TX001")
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byLegacy.ID)

	_, err = repo.GetByID(context.Background(), "TX999")
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestListOrdersNewestFirstBreakingTiesByInsertion(t *testing.T) {
	repo := NewTransactionRepository()
	base := time.Date(2023, 10, 15, 10, 30, 0, 0, time.UTC)

	seedTransaction(t, repo, "TX001", domain.TransactionStatusCompleted, base)
	seedTransaction(t, repo, "TX002", domain.TransactionStatusCompleted, base.Add(time.Hour))
	seedTransaction(t, repo, "TX003", domain.TransactionStatusCompleted, base.Add(time.Hour))

	records, err := repo.ListByLedgerID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "TX003", records[0].LegacyTransactionID)
	assert.Equal(t, "TX002", records[1].LegacyTransactionID)
	assert.Equal(t, "TX001", records[2].LegacyTransactionID)
}

func TestUpdateStatusOnlyTouchesPendingTransactions(t *testing.T) {
	repo := NewTransactionRepository()
	created := seedTransaction(t, repo, "TX001", domain.TransactionStatusPending, time.Now().UTC())

	ledgerTxID := "CORE-0001"
	updated, err := repo.UpdateStatus(context.Background(), created.ID, domain.TransactionStatusCompleted, &ledgerTxID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, updated.Status)
	require.NotNil(t, updated.LedgerTxID)
	assert.Equal(t, "CORE-0001", *updated.LedgerTxID)

	_, err = repo.UpdateStatus(context.Background(), created.ID, domain.TransactionStatusFailed, nil)
	require.Error(t, err, "a settled transaction must stay settled")

	settled := seedTransaction(t, repo, "TX002", domain.TransactionStatusCompleted, time.Now().UTC())
	_, err = repo.UpdateStatus(context.Background(), settled.ID, domain.TransactionStatusFailed, nil)
	require.Error(t, err)
}

func TestUpdateStatusUnknownTransaction(t *testing.T) {
	repo := NewTransactionRepository()

	_, err := repo.UpdateStatus(context.Background(), "missing", domain.TransactionStatusCompleted, nil)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}
