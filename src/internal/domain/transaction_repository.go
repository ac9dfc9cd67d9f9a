package domain

import "context"

// TransactionRepository is the append-mostly transaction log store.
// Listings return newest first: timestamp descending, ties broken by
// insertion order with the most recently inserted record first.
// UpdateStatus only moves a pending record to completed or failed;
// everything else about a stored transaction is immutable.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	GetByID(ctx context.Context, id string) (Transaction, error)
	ListByLedgerID(ctx context.Context, ledgerID string) ([]Transaction, error)
	ListByAccountNumber(ctx context.Context, accountNumber string) ([]Transaction, error)
	UpdateStatus(ctx context.Context, id string, status TransactionStatus, ledgerTxID *string) (Transaction, error)
	DeleteAll(ctx context.Context) error
}
