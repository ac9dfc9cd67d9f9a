package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	FromUserID    string          `json:"fromUserId"`
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Pin           string          `json:"pin"`
	Description   string          `json:"description,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// Validate checks presence only. Ordering-sensitive checks (account
// resolution, PIN, self-transfer, amount against balance) belong to the
// transfer engine, which runs them in a fixed fail-fast order.
func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FromUserID) == "" {
		errs = append(errs, "fromUserId is required")
	}
	if strings.TrimSpace(r.FromAccountID) == "" {
		errs = append(errs, "fromAccountId is required")
	}
	if strings.TrimSpace(r.ToAccountID) == "" {
		errs = append(errs, "toAccountId is required")
	}
	if r.Amount.IsZero() {
		errs = append(errs, "amount is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	Transaction   TransactionResponse `json:"transaction"`
	SenderBalance decimal.Decimal     `json:"senderBalance"`
	Currency      string              `json:"currency"`
	ReferenceID   string              `json:"referenceId"`
}

type ConfirmSettlementRequest struct {
	LedgerTxID string `json:"ledgerTxId"`
}

func (r ConfirmSettlementRequest) Validate() error {
	if strings.TrimSpace(r.LedgerTxID) == "" {
		return errors.New("ledgerTxId is required")
	}
	return nil
}

type ConfirmSettlementResponse struct {
	Transaction TransactionResponse `json:"transaction"`
}
