package domain

import "time"

// User is an identity record holding one or more embedded accounts.
// LedgerID is the identity known to the external settlement ledger
// (e.g. User1@smartbanka.com); LegacyUserID is kept for reconciliation
// with the previous core system.
type User struct {
	ID           string
	LedgerID     string
	LegacyUserID string
	Name         string
	Email        string
	PinHash      string
	Accounts     []Account
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountByNumber returns the embedded account with the given number.
func (u User) AccountByNumber(accountNumber string) (Account, bool) {
	for _, account := range u.Accounts {
		if account.AccountNumber == accountNumber {
			return account, true
		}
	}
	return Account{}, false
}

// PrimaryAccount returns the first embedded account. Demo identities
// carry exactly one account, so listings surface this one.
func (u User) PrimaryAccount() (Account, bool) {
	if len(u.Accounts) == 0 {
		return Account{}, false
	}
	return u.Accounts[0], true
}
