package domain

import "github.com/shopspring/decimal"

type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// Projection is the per-viewer rendering of a transaction: the stored
// amount stays an unsigned magnitude, the sign belongs to the viewer.
type Projection struct {
	Direction    Direction
	SignedAmount decimal.Decimal
}

// Project classifies a transaction for a viewing account. A transfer is
// a send when the viewer's account number matches the sender field and
// a receive otherwise; deposits always credit the viewer, withdrawals
// always debit it.
func Project(tx Transaction, viewerAccountNumber string) Projection {
	switch tx.Type {
	case TransactionTypeDeposit:
		return Projection{Direction: DirectionReceive, SignedAmount: tx.Amount}
	case TransactionTypeWithdrawal:
		return Projection{Direction: DirectionSend, SignedAmount: tx.Amount.Neg()}
	}

	if tx.SenderAccount == viewerAccountNumber {
		return Projection{Direction: DirectionSend, SignedAmount: tx.Amount.Neg()}
	}
	return Projection{Direction: DirectionReceive, SignedAmount: tx.Amount}
}
