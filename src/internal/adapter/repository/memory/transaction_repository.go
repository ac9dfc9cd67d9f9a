package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

// TransactionRepository is the in-memory transaction log store. Each
// record carries an insertion sequence so listings can break timestamp
// ties with the most recently inserted record first, matching the
// postgres store's ordering.
type TransactionRepository struct {
	mu      sync.Mutex
	nextSeq int64
	records []storedTransaction
}

type storedTransaction struct {
	seq int64
	tx  domain.Transaction
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

func (r *TransactionRepository) Create(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = uuid.NewString()
	now := time.Now().UTC()
	if tx.Timestamp.IsZero() {
		tx.Timestamp = now
	}
	tx.CreatedAt = now
	tx.UpdatedAt = now

	r.nextSeq++
	r.records = append(r.records, storedTransaction{seq: r.nextSeq, tx: tx})

	return tx, nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if record.tx.ID == id || record.tx.LegacyTransactionID == id {
			return record.tx, nil
		}
	}
	return domain.Transaction{}, domain.ErrTransactionNotFound
}

func (r *TransactionRepository) ListByLedgerID(_ context.Context, ledgerID string) ([]domain.Transaction, error) {
	return r.listWhere(func(tx domain.Transaction) bool {
		return tx.SenderLedgerID == ledgerID || tx.RecipientLedgerID == ledgerID
	}), nil
}

func (r *TransactionRepository) ListByAccountNumber(_ context.Context, accountNumber string) ([]domain.Transaction, error) {
	return r.listWhere(func(tx domain.Transaction) bool {
		return tx.SenderAccount == accountNumber || tx.RecipientAccount == accountNumber
	}), nil
}

func (r *TransactionRepository) listWhere(match func(domain.Transaction) bool) []domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	selected := make([]storedTransaction, 0, len(r.records))
	for _, record := range r.records {
		if match(record.tx) {
			selected = append(selected, record)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if !selected[i].tx.Timestamp.Equal(selected[j].tx.Timestamp) {
			return selected[i].tx.Timestamp.After(selected[j].tx.Timestamp)
		}
		return selected[i].seq > selected[j].seq
	})

	out := make([]domain.Transaction, 0, len(selected))
	for _, record := range selected {
		out = append(out, record.tx)
	}
	return out
}

func (r *TransactionRepository) UpdateStatus(_ context.Context, id string, status domain.TransactionStatus, ledgerTxID *string) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		tx := &r.records[i].tx
		if tx.ID != id && tx.LegacyTransactionID != id {
			continue
		}
		if tx.Status != domain.TransactionStatusPending {
			return domain.Transaction{}, fmt.Errorf("transaction %s is %s, not pending", tx.ID, tx.Status)
		}
		tx.Status = status
		if ledgerTxID != nil {
			value := *ledgerTxID
			tx.LedgerTxID = &value
		}
		tx.UpdatedAt = time.Now().UTC()
		return *tx, nil
	}
	return domain.Transaction{}, domain.ErrTransactionNotFound
}

func (r *TransactionRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
	r.nextSeq = 0
	return nil
}
