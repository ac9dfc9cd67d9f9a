package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserRepository is the account ledger store: users with their embedded
// accounts and balances.
//
// IncrementBalance is the only way balances change. It must be a single
// conditional update keyed on owner identity and account number, never
// a read followed by a write, so concurrent transfers against the same
// account serialize at the store. A negative delta that would take the
// balance below zero fails with ErrInsufficientFunds and leaves the
// balance untouched.
type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	GetByLedgerID(ctx context.Context, ledgerID string) (User, error)
	GetByLegacyUserID(ctx context.Context, legacyUserID string) (User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (User, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (Account, error)
	IncrementBalance(ctx context.Context, ledgerID string, accountNumber string, delta decimal.Decimal) (Account, error)
	AddAccount(ctx context.Context, ledgerID string, account Account) (User, error)
	UpdatePin(ctx context.Context, ledgerID string, pinHash string) error
	DeleteAll(ctx context.Context) error
}
