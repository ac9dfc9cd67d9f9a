package service_interfaces

import (
	"context"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
)

type TransferService interface {
	TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error)
	ConfirmSettlement(ctx context.Context, transactionID string, ledgerTxID string) (commons.Response[models.ConfirmSettlementResponse], error)
}
