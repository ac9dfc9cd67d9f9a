package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

type CreateUserRequest struct {
	LedgerID     string                 `json:"ledgerId"`
	LegacyUserID string                 `json:"legacyUserId"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Pin          string                 `json:"pin"`
	Accounts     []CreateAccountRequest `json:"accounts"`
}

type CreateAccountRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency,omitempty"`
	Type          string          `json:"type"`
}

func (r CreateUserRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.LedgerID) == "" {
		errs = append(errs, "ledgerId is required")
	}
	if strings.TrimSpace(r.LegacyUserID) == "" {
		errs = append(errs, "legacyUserId is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !strings.Contains(email, "@") {
		errs = append(errs, "email is not valid")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}
	if len(r.Accounts) == 0 {
		errs = append(errs, "at least one account is required")
	}
	for _, account := range r.Accounts {
		if !domain.ValidAccountNumber(strings.TrimSpace(account.AccountNumber)) {
			errs = append(errs, "accountNumber must be exactly 12 digits")
		}
		if account.Balance.IsNegative() {
			errs = append(errs, "balance cannot be negative")
		}
		if strings.TrimSpace(account.Type) == "" {
			errs = append(errs, "account type is required")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AddAccountRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency,omitempty"`
	Type          string          `json:"type"`
}

func (r AddAccountRequest) Validate() error {
	var errs []string

	if !domain.ValidAccountNumber(strings.TrimSpace(r.AccountNumber)) {
		errs = append(errs, "accountNumber must be exactly 12 digits")
	}
	if r.Balance.IsNegative() {
		errs = append(errs, "balance cannot be negative")
	}
	if strings.TrimSpace(r.Type) == "" {
		errs = append(errs, "account type is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdatePinRequest struct {
	NewPin string `json:"newPin"`
}

func (r UpdatePinRequest) Validate() error {
	if strings.TrimSpace(r.NewPin) == "" {
		return errors.New("newPin is required")
	}
	return nil
}

// UserSummaryResponse is the identity-picker shape: one line per user
// with the primary account. The masked form is what the picker shows;
// the raw number stays available for the transfer form.
type UserSummaryResponse struct {
	UserID        string          `json:"userId"`
	LedgerID      string          `json:"ledgerId"`
	Name          string          `json:"name"`
	Bank          string          `json:"bank"`
	AccountNumber string          `json:"accountNumber"`
	MaskedAccount string          `json:"maskedAccount"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
}

type AccountResponse struct {
	AccountNumber    string          `json:"accountNumber"`
	FormattedAccount string          `json:"formattedAccount"`
	Balance          decimal.Decimal `json:"balance"`
	Currency         string          `json:"currency"`
	Type             string          `json:"type"`
}

type GetUserResponse struct {
	UserID   string            `json:"userId"`
	LedgerID string            `json:"ledgerId"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Bank     string            `json:"bank"`
	Accounts []AccountResponse `json:"accounts"`
}

type CreateUserResponse struct {
	UserID   string `json:"userId"`
	LedgerID string `json:"ledgerId"`
	Name     string `json:"name"`
}

type AddAccountResponse struct {
	UserID   string            `json:"userId"`
	LedgerID string            `json:"ledgerId"`
	Accounts []AccountResponse `json:"accounts"`
}

type UpdatePinResponse struct {
	LedgerID string `json:"ledgerId"`
	Updated  bool   `json:"updated"`
}
