package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.HandlerFunc(c.listTransactions)
	if authMiddleware != nil {
		handler = authMiddleware(handler).ServeHTTP
	}

	mux.Handle("/api/transactions", http.HandlerFunc(handler))
}

func (c *TransactionController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.ListTransactionsResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	query := r.URL.Query()
	userID := query.Get("userId")
	accountNumber := query.Get("accountNumber")
	direction := query.Get("direction")

	var (
		response commons.Response[models.ListTransactionsResponse]
		err      error
	)
	switch {
	case userID != "":
		response, err = c.service.ListForUser(r.Context(), userID, direction)
	case accountNumber != "":
		response, err = c.service.ListForAccount(r.Context(), accountNumber, direction)
	default:
		response = commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", "userId or accountNumber is required")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
