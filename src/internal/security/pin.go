package security

import (
	"fmt"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const PinLength = 6

// HashPin applies a salted, deliberately slow one-way transform to a
// plain PIN for storage.
func HashPin(pin string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hashed), nil
}

// VerifyPin compares a plain PIN against a stored hash. A mismatch is
// domain.ErrInvalidCredential; any other error means the comparison
// itself could not run.
func VerifyPin(pin string, storedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return domain.ErrInvalidCredential
		}
		return fmt.Errorf("verify pin: %w", err)
	}
	return nil
}

// ValidPinFormat reports whether the value is exactly six ASCII digits.
// Callers check this before VerifyPin so an obviously malformed PIN
// never pays for a bcrypt round.
func ValidPinFormat(pin string) bool {
	if len(pin) != PinLength {
		return false
	}
	for _, ch := range pin {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
