package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
)

// TransferRepository posts a transfer as a single database transaction:
// the transaction row and both conditional balance updates commit
// together. A reader never sees the record without its balance effects,
// and a crash mid-posting rolls the whole thing back.
type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

var _ domain.TransferPoster = (*TransferRepository)(nil)

const insertTransaction = `
INSERT INTO transactions (
	legacy_transaction_id,
	ledger_tx_id,
	sender_ledger_id,
	sender_account,
	recipient_ledger_id,
	recipient_account,
	amount,
	currency,
	status,
	type,
	ts,
	description,
	reference_id,
	notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, created_at, updated_at`

func (r *TransferRepository) PostTransfer(ctx context.Context, record domain.Transaction, debit domain.Posting, credit domain.Posting) (domain.Transaction, domain.Account, error) {
	logger.Info("transfer repository post", logger.Fields{
		"legacyTransactionId": record.LegacyTransactionID,
		"senderAccount":       debit.AccountNumber,
		"recipientAccount":    credit.AccountNumber,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transfer repository begin tx failed", err, nil)
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("begin transfer posting: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := insertRecord(ctx, tx, &record); err != nil {
		logger.Error("transfer repository post record failed", err, logger.Fields{
			"legacyTransactionId": record.LegacyTransactionID,
		})
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("post transfer record: %w", err)
	}

	sender, err := applyLeg(ctx, tx, debit.LedgerID, debit.AccountNumber, debit.Amount.Neg())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			legErr := diagnoseLeg(ctx, tx, debit)
			_ = tx.Rollback()
			r.recordFailed(ctx, record)
			return domain.Transaction{}, domain.Account{}, legErr
		}
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("post transfer debit: %w", err)
	}

	if _, err := applyLeg(ctx, tx, credit.LedgerID, credit.AccountNumber, credit.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			legErr := diagnoseLeg(ctx, tx, credit)
			_ = tx.Rollback()
			r.recordFailed(ctx, record)
			return domain.Transaction{}, domain.Account{}, legErr
		}
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("post transfer credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("transfer repository commit failed", err, logger.Fields{
			"transactionId": record.ID,
		})
		return domain.Transaction{}, domain.Account{}, fmt.Errorf("commit transfer posting: %w", err)
	}
	committed = true

	logger.Info("transfer repository post success", logger.Fields{
		"transactionId": record.ID,
		"referenceId":   record.ReferenceID,
	})
	return record, sender, nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertRecord(ctx context.Context, q rowQuerier, record *domain.Transaction) error {
	return q.QueryRowContext(
		ctx,
		insertTransaction,
		record.LegacyTransactionID,
		record.LedgerTxID,
		record.SenderLedgerID,
		record.SenderAccount,
		record.RecipientLedgerID,
		record.RecipientAccount,
		record.Amount,
		record.Currency,
		record.Status,
		record.Type,
		record.Timestamp,
		record.Description,
		nullable(record.ReferenceID),
		nullable(record.Notes),
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

func applyLeg(ctx context.Context, tx *sql.Tx, ledgerID string, accountNumber string, delta decimal.Decimal) (domain.Account, error) {
	const query = `
UPDATE accounts a
SET balance = a.balance + $3::numeric,
    updated_at = NOW()
FROM users u
WHERE u.id = a.user_id
  AND u.ledger_id = $1
  AND a.account_number = $2
  AND a.balance + $3::numeric >= 0
RETURNING a.account_number, a.balance, a.currency, a.type`

	var account domain.Account
	err := tx.QueryRowContext(ctx, query, ledgerID, accountNumber, delta).Scan(
		&account.AccountNumber,
		&account.Balance,
		&account.Currency,
		&account.Type,
	)
	return account, err
}

// diagnoseLeg tells a missing account apart from a rejected debit after
// a leg updated zero rows.
func diagnoseLeg(ctx context.Context, tx *sql.Tx, leg domain.Posting) error {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM accounts a
	JOIN users u ON u.id = a.user_id
	WHERE u.ledger_id = $1 AND a.account_number = $2
)`
	var owned bool
	if err := tx.QueryRowContext(ctx, query, leg.LedgerID, leg.AccountNumber).Scan(&owned); err != nil {
		return fmt.Errorf("transfer posting leg check: %w", err)
	}
	if !owned {
		return domain.ErrAccountNotFound
	}
	return domain.ErrInsufficientFunds
}

// recordFailed writes the record with a failed status outside the
// rolled-back posting, so the trail survives while no balance moved.
func (r *TransferRepository) recordFailed(ctx context.Context, record domain.Transaction) {
	record.Status = domain.TransactionStatusFailed
	if err := insertRecord(ctx, r.db, &record); err != nil {
		logger.Error("transfer repository record failed trail", err, logger.Fields{
			"legacyTransactionId": record.LegacyTransactionID,
		})
	}
}
