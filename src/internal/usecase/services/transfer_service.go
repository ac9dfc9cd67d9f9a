package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
	"github.com/api-sage/smartbank-demo/src/internal/security"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/service_interfaces"
)

// Verify that TransferService implements the service_interfaces.TransferService interface
var _ service_interfaces.TransferService = (*TransferService)(nil)

// TransferService is the transfer engine: it validates a transfer in a
// fixed fail-fast order, records the transaction, and moves the money
// through the store's atomic per-account increments. Balances are never
// cached here; every check reads the store.
type TransferService struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
	poster       domain.TransferPoster
}

// NewTransferService wires the engine to its stores. poster may be nil;
// when the store can post the whole transfer atomically (postgres), the
// engine delegates to it, otherwise it posts leg by leg and compensates.
func NewTransferService(users domain.UserRepository, transactions domain.TransactionRepository, poster domain.TransferPoster) *TransferService {
	return &TransferService{users: users, transactions: transactions, poster: poster}
}

func (s *TransferService) TransferFunds(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	fromAccount := strings.TrimSpace(req.FromAccountID)
	toAccount := strings.TrimSpace(req.ToAccountID)
	pin := strings.TrimSpace(req.Pin)

	// 1. The sender account must exist and belong to the sender identity.
	sender, err := s.resolveUser(ctx, strings.TrimSpace(req.FromUserID))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), domain.ErrAccountNotFound
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}
	senderAccount, ok := sender.AccountByNumber(fromAccount)
	if !ok {
		return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), domain.ErrAccountNotFound
	}

	// 2. PIN check, before any mutation. A malformed PIN is rejected
	// without paying for a bcrypt round.
	if !security.ValidPinFormat(pin) {
		return commons.ErrorResponse[models.TransferResponse]("invalid pin", "pin must be exactly 6 digits"), domain.ErrInvalidCredential
	}
	if err := security.VerifyPin(pin, sender.PinHash); err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			return commons.ErrorResponse[models.TransferResponse]("invalid pin", "provided pin does not match"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	// 3. The recipient account number is shape-checked before any store
	// lookup, then resolved; transfers to the sender's own account are
	// rejected.
	if !domain.ValidAccountNumber(toAccount) {
		return commons.ErrorResponse[models.TransferResponse]("Recipient account not found", "toAccountId must be exactly 12 digits"), domain.ErrAccountNotFound
	}
	if toAccount == fromAccount {
		return commons.ErrorResponse[models.TransferResponse]("transfer rejected", domain.ErrSelfTransfer.Error()), domain.ErrSelfTransfer
	}
	recipient, err := s.users.GetByAccountNumber(ctx, toAccount)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Recipient account not found"), domain.ErrAccountNotFound
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}
	if _, ok := recipient.AccountByNumber(toAccount); !ok {
		return commons.ErrorResponse[models.TransferResponse]("Recipient account not found"), domain.ErrAccountNotFound
	}

	// 4. Amount checks, against the balance read just now.
	if !req.Amount.IsPositive() {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", domain.ErrInvalidAmount.Error()), domain.ErrInvalidAmount
	}
	if req.Amount.GreaterThan(senderAccount.Balance) {
		return commons.ErrorResponse[models.TransferResponse]("Insufficient balance"), domain.ErrInsufficientFunds
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", toAccount)
	}

	record := domain.Transaction{
		LegacyTransactionID: generateCode("TX"),
		SenderLedgerID:      sender.LedgerID,
		SenderAccount:       fromAccount,
		RecipientLedgerID:   recipient.LedgerID,
		RecipientAccount:    toAccount,
		Amount:              req.Amount,
		Currency:            senderAccount.Currency,
		Status:              domain.TransactionStatusPending,
		Type:                domain.TransactionTypeTransfer,
		Timestamp:           time.Now().UTC(),
		Description:         description,
		ReferenceID:         generateCode("REF"),
		Notes:               strings.TrimSpace(req.Notes),
	}

	created, debited, err := s.post(ctx, record,
		domain.Posting{LedgerID: sender.LedgerID, AccountNumber: fromAccount, Amount: req.Amount},
		domain.Posting{LedgerID: recipient.LedgerID, AccountNumber: toAccount, Amount: req.Amount},
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			return commons.ErrorResponse[models.TransferResponse]("Insufficient balance"), domain.ErrInsufficientFunds
		case errors.Is(err, domain.ErrCompensatedFailure):
			return commons.ErrorResponse[models.TransferResponse]("transfer failed", "Transfer was reversed after a partial failure"), err
		default:
			return commons.ErrorResponse[models.TransferResponse]("transfer failed", "Unable to complete transfer posting"), err
		}
	}

	logger.Info("transfer service transfer success", logger.Fields{
		"transactionId": created.ID,
		"referenceId":   created.ReferenceID,
		"senderAccount": fromAccount,
	})

	response := models.TransferResponse{
		Transaction:   transactionResponse(created, fromAccount, s.partyNames(ctx, created)),
		SenderBalance: debited.Balance,
		Currency:      debited.Currency,
		ReferenceID:   created.ReferenceID,
	}
	return commons.SuccessResponse("transfer recorded", response), nil
}

// ConfirmSettlement transitions a pending transaction to completed once
// the external ledger reports its correlation id. Nothing in this
// process produces such a confirmation on its own; a transfer that is
// never confirmed stays pending, and that is an accepted terminal state.
func (s *TransferService) ConfirmSettlement(ctx context.Context, transactionID string, ledgerTxID string) (commons.Response[models.ConfirmSettlementResponse], error) {
	logger.Info("transfer service confirm settlement", logger.Fields{
		"transactionId": transactionID,
		"ledgerTxId":    ledgerTxID,
	})

	transactionID = strings.TrimSpace(transactionID)
	ledgerTxID = strings.TrimSpace(ledgerTxID)
	if transactionID == "" || ledgerTxID == "" {
		err := errors.New("transactionId and ledgerTxId are required")
		return commons.ErrorResponse[models.ConfirmSettlementResponse]("validation failed", err.Error()), err
	}

	updated, err := s.transactions.UpdateStatus(ctx, transactionID, domain.TransactionStatusCompleted, &ledgerTxID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return commons.ErrorResponse[models.ConfirmSettlementResponse]("Transaction not found"), err
		}
		return commons.ErrorResponse[models.ConfirmSettlementResponse]("failed to confirm settlement", "Unable to confirm settlement right now"), err
	}

	response := models.ConfirmSettlementResponse{
		Transaction: transactionResponse(updated, updated.SenderAccount, s.partyNames(ctx, updated)),
	}
	return commons.SuccessResponse("settlement confirmed", response), nil
}

// post moves the money. With an atomic poster the record and both legs
// commit as one store transaction. Without one, the engine creates the
// pending record, debits, credits, and reverses the debit if the credit
// fails, so both balances read as if the transfer never ran.
func (s *TransferService) post(ctx context.Context, record domain.Transaction, debit domain.Posting, credit domain.Posting) (domain.Transaction, domain.Account, error) {
	if s.poster != nil {
		return s.poster.PostTransfer(ctx, record, debit, credit)
	}

	created, err := s.transactions.Create(ctx, record)
	if err != nil {
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("record transfer: %w", err)
	}

	// The store re-checks the balance inside the atomic update, so a
	// concurrent transfer cannot overdraw.
	debited, err := s.users.IncrementBalance(ctx, debit.LedgerID, debit.AccountNumber, debit.Amount.Neg())
	if err != nil {
		s.markFailed(ctx, created.ID)
		return domain.Transaction{}, domain.Account{}, err
	}

	if _, err := s.users.IncrementBalance(ctx, credit.LedgerID, credit.AccountNumber, credit.Amount); err != nil {
		if _, revErr := s.users.IncrementBalance(ctx, debit.LedgerID, debit.AccountNumber, debit.Amount); revErr != nil {
			logger.Error("transfer service debit reversal failed", revErr, logger.Fields{
				"transactionId": created.ID,
				"senderAccount": debit.AccountNumber,
			})
			return domain.Transaction{}, domain.Account{}, fmt.Errorf("credit failed (%v) and debit reversal failed: %w", err, revErr)
		}
		s.markFailed(ctx, created.ID)
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("%w: %v", domain.ErrCompensatedFailure, err)
	}

	return created, debited, nil
}

func (s *TransferService) markFailed(ctx context.Context, transactionID string) {
	if _, err := s.transactions.UpdateStatus(ctx, transactionID, domain.TransactionStatusFailed, nil); err != nil {
		logger.Error("transfer service mark failed", err, logger.Fields{
			"transactionId": transactionID,
		})
	}
}

// resolveUser accepts either a legacy user id or a ledger identity; the
// previous core's clients still send the legacy form.
func (s *TransferService) resolveUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByLegacyUserID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	return s.users.GetByLedgerID(ctx, id)
}

func (s *TransferService) partyNames(ctx context.Context, tx domain.Transaction) map[string]string {
	names := map[string]string{}
	for _, ledgerID := range []string{tx.SenderLedgerID, tx.RecipientLedgerID} {
		if _, ok := names[ledgerID]; ok {
			continue
		}
		user, err := s.users.GetByLedgerID(ctx, ledgerID)
		if err != nil {
			continue
		}
		names[ledgerID] = user.Name
	}
	return names
}

func generateCode(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
