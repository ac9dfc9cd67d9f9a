package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "VND"

var accountNumberPattern = regexp.MustCompile(`^\d{12}$`)

// Account is a balance-holding account embedded in a User. The account
// number is exactly 12 ASCII digits, zero-padded, globally unique.
type Account struct {
	AccountNumber string
	Balance       decimal.Decimal
	Currency      string
	Type          string
}

// ValidAccountNumber reports whether the value matches the 12-digit
// account number format. Parseability as a number is not enough; a
// shorter numeric string is still invalid.
func ValidAccountNumber(accountNumber string) bool {
	return accountNumberPattern.MatchString(accountNumber)
}
