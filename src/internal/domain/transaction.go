package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction is one logical transfer event. Amount is always the
// unsigned magnitude; direction is derived per viewer, never stored.
// LedgerTxID stays nil until the external ledger confirms settlement,
// which may never happen: an unconfirmed transfer remains pending, and
// that is a terminal state rather than a failure.
type Transaction struct {
	ID                  string
	LegacyTransactionID string
	LedgerTxID          *string
	SenderLedgerID      string
	SenderAccount       string
	RecipientLedgerID   string
	RecipientAccount    string
	Amount              decimal.Decimal
	Currency            string
	Status              TransactionStatus
	Type                TransactionType
	Timestamp           time.Time
	Description         string
	ReferenceID         string
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
