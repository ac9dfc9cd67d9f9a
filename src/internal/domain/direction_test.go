package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProjectTransfer(t *testing.T) {
	tx := Transaction{
		Type:             TransactionTypeTransfer,
		SenderAccount:    "100000000001",
		RecipientAccount: "100000000002",
		Amount:           decimal.RequireFromString("5000000"),
	}

	fromSender := Project(tx, "100000000001")
	assert.Equal(t, DirectionSend, fromSender.Direction)
	assert.True(t, fromSender.SignedAmount.Equal(decimal.RequireFromString("-5000000")))

	fromRecipient := Project(tx, "100000000002")
	assert.Equal(t, DirectionReceive, fromRecipient.Direction)
	assert.True(t, fromRecipient.SignedAmount.Equal(decimal.RequireFromString("5000000")))
}

func TestProjectDepositAlwaysReceives(t *testing.T) {
	tx := Transaction{
		Type:             TransactionTypeDeposit,
		RecipientAccount: "100000000001",
		Amount:           decimal.RequireFromString("1000"),
	}

	projection := Project(tx, "100000000001")
	assert.Equal(t, DirectionReceive, projection.Direction)
	assert.True(t, projection.SignedAmount.IsPositive())
}

func TestProjectWithdrawalAlwaysSends(t *testing.T) {
	tx := Transaction{
		Type:          TransactionTypeWithdrawal,
		SenderAccount: "100000000001",
		Amount:        decimal.RequireFromString("1000"),
	}

	projection := Project(tx, "100000000001")
	assert.Equal(t, DirectionSend, projection.Direction)
	assert.True(t, projection.SignedAmount.IsNegative())
}
