package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredential = errors.New("invalid pin")
var ErrSelfTransfer = errors.New("sender and recipient accounts must differ")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInsufficientFunds = errors.New("insufficient balance")
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrCompensatedFailure reports that the recipient credit failed after
// the sender debit had applied; the debit was reversed and the transfer
// recorded as failed.
var ErrCompensatedFailure = errors.New("transfer reversed after partial failure")
