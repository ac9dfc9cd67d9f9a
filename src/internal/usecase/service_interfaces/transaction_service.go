package service_interfaces

import (
	"context"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
)

type TransactionService interface {
	ListForUser(ctx context.Context, userID string, direction string) (commons.Response[models.ListTransactionsResponse], error)
	ListForAccount(ctx context.Context, accountNumber string, direction string) (commons.Response[models.ListTransactionsResponse], error)
}
