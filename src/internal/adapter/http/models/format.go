package models

// Display formatting for 12-digit account numbers. Storage keeps the
// raw digits; grouping and masking happen only at this boundary.

// FormatAccountNumber groups a 12-digit account number into 4-digit
// blocks: 100000000001 -> "1000 0000 0001". Anything else passes
// through unchanged.
func FormatAccountNumber(accountNumber string) string {
	if len(accountNumber) != 12 {
		return accountNumber
	}
	return accountNumber[0:4] + " " + accountNumber[4:8] + " " + accountNumber[8:12]
}

// MaskAccountNumber hides all but the last four digits of a 12-digit
// account number.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) != 12 {
		return accountNumber
	}
	return "•••• •••• " + accountNumber[8:12]
}
