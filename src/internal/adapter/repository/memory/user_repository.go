package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
)

// UserRepository is the in-memory account ledger store used by the
// offline/demo mode and by tests. It implements the same contract as
// the postgres store: one mutex stands in for the storage engine's
// per-statement atomicity, and every read returns a snapshot copy so
// callers cannot reach internal state.
type UserRepository struct {
	mu    sync.Mutex
	users []*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.LedgerID == user.LedgerID {
			return domain.User{}, fmt.Errorf("ledger id %s already exists", user.LedgerID)
		}
		if existing.LegacyUserID == user.LegacyUserID {
			return domain.User{}, fmt.Errorf("legacy user id %s already exists", user.LegacyUserID)
		}
		if existing.Email == user.Email {
			return domain.User{}, fmt.Errorf("email %s already exists", user.Email)
		}
		for _, account := range user.Accounts {
			if _, ok := existing.AccountByNumber(account.AccountNumber); ok {
				return domain.User{}, fmt.Errorf("account number %s already exists", account.AccountNumber)
			}
		}
	}

	user.ID = uuid.NewString()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := cloneUser(user)
	r.users = append(r.users, &stored)

	return user, nil
}

func (r *UserRepository) GetAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, cloneUser(*user))
	}
	return out, nil
}

func (r *UserRepository) GetByLedgerID(_ context.Context, ledgerID string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.LedgerID == ledgerID {
			return cloneUser(*user), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) GetByLegacyUserID(_ context.Context, legacyUserID string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.LegacyUserID == legacyUserID {
			return cloneUser(*user), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if _, ok := user.AccountByNumber(accountNumber); ok {
			return cloneUser(*user), nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) GetAccountByNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if account, ok := user.AccountByNumber(accountNumber); ok {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

// IncrementBalance applies a signed delta under the lock; the check and
// the mutation are one critical section, so concurrent debits against
// the same account cannot both pass the guard.
func (r *UserRepository) IncrementBalance(_ context.Context, ledgerID string, accountNumber string, delta decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.LedgerID != ledgerID {
			continue
		}
		for i := range user.Accounts {
			if user.Accounts[i].AccountNumber != accountNumber {
				continue
			}
			next := user.Accounts[i].Balance.Add(delta)
			if next.IsNegative() {
				return domain.Account{}, domain.ErrInsufficientFunds
			}
			user.Accounts[i].Balance = next
			user.UpdatedAt = time.Now().UTC()
			return user.Accounts[i], nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound
}

// AddAccount attaches one more account to an existing user. The number
// must be unique across the whole store, same as on Create.
func (r *UserRepository) AddAccount(_ context.Context, ledgerID string, account domain.Account) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if _, ok := existing.AccountByNumber(account.AccountNumber); ok {
			return domain.User{}, fmt.Errorf("account number %s already exists", account.AccountNumber)
		}
	}

	for _, user := range r.users {
		if user.LedgerID != ledgerID {
			continue
		}
		user.Accounts = append(user.Accounts, account)
		user.UpdatedAt = time.Now().UTC()
		return cloneUser(*user), nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *UserRepository) UpdatePin(_ context.Context, ledgerID string, pinHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.LedgerID == ledgerID {
			user.PinHash = pinHash
			user.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *UserRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = nil
	return nil
}

func cloneUser(user domain.User) domain.User {
	accounts := make([]domain.Account, len(user.Accounts))
	copy(accounts, user.Accounts)
	user.Accounts = accounts
	return user
}
