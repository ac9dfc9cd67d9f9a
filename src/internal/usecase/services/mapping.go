package services

import (
	"time"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

// transactionResponse renders a stored transaction for one viewer: the
// direction and sign come from the projection, the stored magnitude
// stays unsigned.
func transactionResponse(tx domain.Transaction, viewerAccount string, names map[string]string) models.TransactionResponse {
	projection := domain.Project(tx, viewerAccount)

	return models.TransactionResponse{
		ID:                  tx.ID,
		LegacyTransactionID: tx.LegacyTransactionID,
		LedgerTxID:          tx.LedgerTxID,
		Direction:           string(projection.Direction),
		Amount:              projection.SignedAmount,
		Magnitude:           tx.Amount,
		Currency:            tx.Currency,
		Status:              string(tx.Status),
		Type:                string(tx.Type),
		Timestamp:           tx.Timestamp.UTC().Format(time.RFC3339),
		Description:         tx.Description,
		ReferenceID:         tx.ReferenceID,
		Notes:               tx.Notes,
		SenderName:          names[tx.SenderLedgerID],
		SenderAccount:       tx.SenderAccount,
		RecipientName:       names[tx.RecipientLedgerID],
		RecipientAccount:    tx.RecipientAccount,
	}
}
