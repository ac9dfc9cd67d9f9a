package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/service_interfaces"
)

// Verify that TransactionService implements the service_interfaces.TransactionService interface
var _ service_interfaces.TransactionService = (*TransactionService)(nil)

// TransactionService is the read façade over the transaction log:
// per-user and per-account history, newest first, with the direction
// and signed amount projected for the requesting viewer.
type TransactionService struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
}

func NewTransactionService(users domain.UserRepository, transactions domain.TransactionRepository) *TransactionService {
	return &TransactionService{users: users, transactions: transactions}
}

func (s *TransactionService) ListForUser(ctx context.Context, userID string, direction string) (commons.Response[models.ListTransactionsResponse], error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		err := errors.New("userId is required")
		return commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", err.Error()), err
	}

	filter, err := models.NormalizeDirectionFilter(direction)
	if err != nil {
		return commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", err.Error()), err
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.ListTransactionsResponse]("User not found"), err
		}
		logger.Error("transaction service resolve user failed", err, logger.Fields{"userId": userID})
		return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	records, err := s.transactions.ListByLedgerID(ctx, user.LedgerID)
	if err != nil {
		logger.Error("transaction service list failed", err, logger.Fields{"ledgerId": user.LedgerID})
		return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	entries := s.project(ctx, records, func(tx domain.Transaction) string {
		// The viewer's side of the transfer is whichever of their
		// accounts appears on the record.
		if _, ok := user.AccountByNumber(tx.SenderAccount); ok {
			return tx.SenderAccount
		}
		return tx.RecipientAccount
	}, filter)

	response := models.ListTransactionsResponse{
		UserID:       user.LegacyUserID,
		LedgerID:     user.LedgerID,
		Direction:    filter,
		Transactions: entries,
	}
	return commons.SuccessResponse("transactions fetched successfully", response), nil
}

func (s *TransactionService) ListForAccount(ctx context.Context, accountNumber string, direction string) (commons.Response[models.ListTransactionsResponse], error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if !domain.ValidAccountNumber(accountNumber) {
		err := errors.New("accountNumber must be exactly 12 digits")
		return commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", err.Error()), err
	}

	filter, err := models.NormalizeDirectionFilter(direction)
	if err != nil {
		return commons.ErrorResponse[models.ListTransactionsResponse]("validation failed", err.Error()), err
	}

	owner, err := s.users.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.ListTransactionsResponse]("Account not found"), domain.ErrAccountNotFound
		}
		return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	records, err := s.transactions.ListByAccountNumber(ctx, accountNumber)
	if err != nil {
		logger.Error("transaction service list failed", err, logger.Fields{"accountNumber": accountNumber})
		return commons.ErrorResponse[models.ListTransactionsResponse]("failed to list transactions", "Unable to fetch transactions right now"), err
	}

	entries := s.project(ctx, records, func(domain.Transaction) string {
		return accountNumber
	}, filter)

	response := models.ListTransactionsResponse{
		UserID:       owner.LegacyUserID,
		LedgerID:     owner.LedgerID,
		Direction:    filter,
		Transactions: entries,
	}
	return commons.SuccessResponse("transactions fetched successfully", response), nil
}

func (s *TransactionService) project(ctx context.Context, records []domain.Transaction, viewerAccount func(domain.Transaction) string, filter string) []models.TransactionResponse {
	names := map[string]string{}
	entries := make([]models.TransactionResponse, 0, len(records))

	for _, tx := range records {
		for _, ledgerID := range []string{tx.SenderLedgerID, tx.RecipientLedgerID} {
			if _, ok := names[ledgerID]; ok {
				continue
			}
			if party, err := s.users.GetByLedgerID(ctx, ledgerID); err == nil {
				names[ledgerID] = party.Name
			}
		}

		entry := transactionResponse(tx, viewerAccount(tx), names)
		if filter != models.DirectionFilterAll && entry.Direction != filter {
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}

func (s *TransactionService) resolveUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByLegacyUserID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	return s.users.GetByLedgerID(ctx, id)
}
