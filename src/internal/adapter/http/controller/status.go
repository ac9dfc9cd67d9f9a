package controller

import (
	"errors"
	"net/http"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

// statusForError maps domain failures onto HTTP status codes. Anything
// the domain does not recognize is a server-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCompensatedFailure):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
