package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DirectionFilterAll     = "all"
	DirectionFilterSend    = "send"
	DirectionFilterReceive = "receive"
)

// NormalizeDirectionFilter maps the direction query parameter to one of
// the supported filters; an empty value means all.
func NormalizeDirectionFilter(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", DirectionFilterAll:
		return DirectionFilterAll, nil
	case DirectionFilterSend, DirectionFilterReceive:
		return normalized, nil
	default:
		return "", errors.New("direction must be one of all, send, receive")
	}
}

// TransactionResponse is one history entry as seen by a specific viewer:
// amount carries the viewer's sign, magnitude stays unsigned.
type TransactionResponse struct {
	ID                  string          `json:"id"`
	LegacyTransactionID string          `json:"legacyTransactionId"`
	LedgerTxID          *string         `json:"ledgerTxId"`
	Direction           string          `json:"direction"`
	Amount              decimal.Decimal `json:"amount"`
	Magnitude           decimal.Decimal `json:"magnitude"`
	Currency            string          `json:"currency"`
	Status              string          `json:"status"`
	Type                string          `json:"type"`
	Timestamp           string          `json:"timestamp"`
	Description         string          `json:"description"`
	ReferenceID         string          `json:"referenceId,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	SenderName          string          `json:"senderName,omitempty"`
	SenderAccount       string          `json:"senderAccount"`
	RecipientName       string          `json:"recipientName,omitempty"`
	RecipientAccount    string          `json:"recipientAccount"`
}

type ListTransactionsResponse struct {
	UserID       string                `json:"userId"`
	LedgerID     string                `json:"ledgerId"`
	Direction    string                `json:"direction"`
	Transactions []TransactionResponse `json:"transactions"`
}
