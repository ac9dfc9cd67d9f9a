package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
id, legacy_transaction_id, ledger_tx_id,
sender_ledger_id, sender_account, recipient_ledger_id, recipient_account,
amount, currency, status, type, ts, description, reference_id, notes,
created_at, updated_at`

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"legacyTransactionId": tx.LegacyTransactionID,
		"senderAccount":       tx.SenderAccount,
		"recipientAccount":    tx.RecipientAccount,
		"status":              tx.Status,
		"type":                tx.Type,
	})

	if err := insertRecord(ctx, r.db, &tx); err != nil {
		logger.Error("transaction repository create failed", err, logger.Fields{
			"legacyTransactionId": tx.LegacyTransactionID,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	logger.Info("transaction repository create success", logger.Fields{
		"transactionId": tx.ID,
		"referenceId":   tx.ReferenceID,
	})
	return tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE id::text = $1 OR legacy_transaction_id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		logger.Error("transaction repository get failed", err, logger.Fields{"id": id})
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByLedgerID(ctx context.Context, ledgerID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE sender_ledger_id = $1 OR recipient_ledger_id = $1
ORDER BY ts DESC, seq DESC`

	return r.list(ctx, query, ledgerID)
}

func (r *TransactionRepository) ListByAccountNumber(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
FROM transactions
WHERE sender_account = $1 OR recipient_account = $1
ORDER BY ts DESC, seq DESC`

	return r.list(ctx, query, accountNumber)
}

func (r *TransactionRepository) list(ctx context.Context, query string, arg string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		logger.Error("transaction repository list failed", err, logger.Fields{"arg": arg})
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return out, nil
}

// UpdateStatus moves a pending transaction to completed or failed and
// records the external ledger correlation id when one is supplied.
// Non-pending records are immutable.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus, ledgerTxID *string) (domain.Transaction, error) {
	logger.Info("transaction repository update status", logger.Fields{
		"transactionId": id,
		"status":        status,
	})

	query := `
UPDATE transactions
SET status = $2,
    ledger_tx_id = COALESCE($3, ledger_tx_id),
    updated_at = NOW()
WHERE (id::text = $1 OR legacy_transaction_id = $1)
  AND status = 'pending'
RETURNING ` + transactionColumns

	row := r.db.QueryRowContext(ctx, query, id, status, ledgerTxID)
	tx, err := scanTransaction(row)
	if err == nil {
		return tx, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("transaction repository update status failed", err, logger.Fields{
			"transactionId": id,
		})
		return domain.Transaction{}, fmt.Errorf("update transaction status: %w", err)
	}

	existing, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return domain.Transaction{}, getErr
	}
	return domain.Transaction{}, fmt.Errorf("transaction %s is %s, not pending", existing.ID, existing.Status)
}

func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var tx domain.Transaction
	var ledgerTxID sql.NullString
	var referenceID sql.NullString
	var notes sql.NullString

	if err := row.Scan(
		&tx.ID,
		&tx.LegacyTransactionID,
		&ledgerTxID,
		&tx.SenderLedgerID,
		&tx.SenderAccount,
		&tx.RecipientLedgerID,
		&tx.RecipientAccount,
		&tx.Amount,
		&tx.Currency,
		&tx.Status,
		&tx.Type,
		&tx.Timestamp,
		&tx.Description,
		&referenceID,
		&notes,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	if ledgerTxID.Valid {
		value := ledgerTxID.String
		tx.LedgerTxID = &value
	}
	tx.ReferenceID = referenceID.String
	tx.Notes = notes.String

	return tx, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
