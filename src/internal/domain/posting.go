package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Posting is one balance leg of a transfer: which account moves and by
// how much. Amount is the unsigned magnitude; whether the leg debits or
// credits is positional.
type Posting struct {
	LedgerID      string
	AccountNumber string
	Amount        decimal.Decimal
}

// TransferPoster applies a full transfer posting as one unit: the
// transaction record and both balance legs commit or roll back
// together, so a reader never observes the record without its balance
// effects. A rejected debit still commits the record with a failed
// status so the trail survives.
//
// Stores without multi-statement transactions do not implement this;
// the transfer engine then posts each leg individually and compensates
// a failed credit by reversing the debit.
type TransferPoster interface {
	PostTransfer(ctx context.Context, record Transaction, debit Posting, credit Posting) (Transaction, Account, error)
}
