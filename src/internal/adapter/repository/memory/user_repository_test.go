package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

func seedUser(t *testing.T, repo *UserRepository, ledgerID, accountNumber, balance string) {
	t.Helper()
	_, err := repo.Create(context.Background(), domain.User{
		LedgerID:     ledgerID,
		LegacyUserID: "legacy-" + ledgerID,
		Name:         "Test " + ledgerID,
		Email:        ledgerID + "@example.com",
		PinHash:      "hash",
		Accounts: []domain.Account{{
			AccountNumber: accountNumber,
			Balance:       decimal.RequireFromString(balance),
			Currency:      domain.DefaultCurrency,
			Type:          "Savings",
		}},
	})
	require.NoError(t, err)
}

func TestIncrementBalanceAppliesSignedDelta(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	debited, err := repo.IncrementBalance(context.Background(), "u1", "100000000001", decimal.RequireFromString("-400"))
	require.NoError(t, err)
	assert.True(t, debited.Balance.Equal(decimal.RequireFromString("600")))

	credited, err := repo.IncrementBalance(context.Background(), "u1", "100000000001", decimal.RequireFromString("150"))
	require.NoError(t, err)
	assert.True(t, credited.Balance.Equal(decimal.RequireFromString("750")))
}

func TestIncrementBalanceRejectsOverdraw(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	_, err := repo.IncrementBalance(context.Background(), "u1", "100000000001", decimal.RequireFromString("-1001"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := repo.GetAccountByNumber(context.Background(), "100000000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("1000")))
}

func TestIncrementBalanceAllowsExactDrain(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	account, err := repo.IncrementBalance(context.Background(), "u1", "100000000001", decimal.RequireFromString("-1000"))
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())
}

func TestIncrementBalanceUnknownAccount(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	_, err := repo.IncrementBalance(context.Background(), "u1", "100000000099", decimal.RequireFromString("10"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// The account exists but belongs to someone else.
	_, err = repo.IncrementBalance(context.Background(), "u2", "100000000001", decimal.RequireFromString("10"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	_, err := repo.Create(context.Background(), domain.User{
		LedgerID:     "u1",
		LegacyUserID: "other",
		Name:         "Dup",
		Email:        "dup@example.com",
		Accounts:     []domain.Account{{AccountNumber: "100000000002"}},
	})
	require.Error(t, err)

	_, err = repo.Create(context.Background(), domain.User{
		LedgerID:     "u2",
		LegacyUserID: "legacy-u2",
		Name:         "Dup",
		Email:        "dup@example.com",
		Accounts:     []domain.Account{{AccountNumber: "100000000001"}},
	})
	require.Error(t, err, "reused account number must be rejected")
}

func TestAddAccountAppendsAndGuardsUniqueness(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")
	seedUser(t, repo, "u2", "100000000002", "2000")

	user, err := repo.AddAccount(context.Background(), "u1", domain.Account{
		AccountNumber: "100000000003",
		Balance:       decimal.RequireFromString("500"),
		Currency:      domain.DefaultCurrency,
		Type:          "Current",
	})
	require.NoError(t, err)
	require.Len(t, user.Accounts, 2)
	assert.Equal(t, "100000000003", user.Accounts[1].AccountNumber)

	// A number held by any user is taken, not just the owner's own.
	_, err = repo.AddAccount(context.Background(), "u1", domain.Account{AccountNumber: "100000000002"})
	require.Error(t, err)

	_, err = repo.AddAccount(context.Background(), "u9", domain.Account{AccountNumber: "100000000009"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestReadsReturnSnapshots(t *testing.T) {
	repo := NewUserRepository()
	seedUser(t, repo, "u1", "100000000001", "1000")

	user, err := repo.GetByLedgerID(context.Background(), "u1")
	require.NoError(t, err)
	user.Accounts[0].Balance = decimal.RequireFromString("999999")

	account, err := repo.GetAccountByNumber(context.Background(), "100000000001")
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("1000")), "mutating a returned user must not touch the store")
}
