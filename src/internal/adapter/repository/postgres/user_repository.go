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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"ledgerId":     user.LedgerID,
		"legacyUserId": user.LegacyUserID,
		"email":        user.Email,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("begin create user tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `
INSERT INTO users (ledger_id, legacy_user_id, name, email, pin_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	if err = tx.QueryRowContext(
		ctx,
		insertUser,
		user.LedgerID,
		user.LegacyUserID,
		user.Name,
		user.Email,
		user.PinHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		logger.Error("user repository create failed", err, logger.Fields{
			"ledgerId": user.LedgerID,
		})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	const insertAccount = `
INSERT INTO accounts (user_id, account_number, balance, currency, type)
VALUES ($1, $2, $3, $4, $5)`

	for _, account := range user.Accounts {
		if _, err = tx.ExecContext(
			ctx,
			insertAccount,
			user.ID,
			account.AccountNumber,
			account.Balance,
			account.Currency,
			account.Type,
		); err != nil {
			logger.Error("user repository create account failed", err, logger.Fields{
				"ledgerId":      user.LedgerID,
				"accountNumber": account.AccountNumber,
			})
			return domain.User{}, fmt.Errorf("create account %s: %w", account.AccountNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.User{}, fmt.Errorf("commit create user tx: %w", err)
	}

	logger.Info("user repository create success", logger.Fields{
		"userId":   user.ID,
		"ledgerId": user.LedgerID,
	})
	return user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	const query = `
SELECT u.id, u.ledger_id, u.legacy_user_id, u.name, u.email, u.pin_hash, u.created_at, u.updated_at,
       a.account_number, a.balance, a.currency, a.type
FROM users u
LEFT JOIN accounts a ON a.user_id = u.id
ORDER BY u.created_at, a.created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("user repository get all failed", err, nil)
		return nil, fmt.Errorf("get all users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	index := map[string]int{}

	for rows.Next() {
		var user domain.User
		var accountNumber sql.NullString
		var balance decimal.NullDecimal
		var currency sql.NullString
		var accountType sql.NullString

		if err := rows.Scan(
			&user.ID,
			&user.LedgerID,
			&user.LegacyUserID,
			&user.Name,
			&user.Email,
			&user.PinHash,
			&user.CreatedAt,
			&user.UpdatedAt,
			&accountNumber,
			&balance,
			&currency,
			&accountType,
		); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}

		pos, seen := index[user.ID]
		if !seen {
			pos = len(users)
			index[user.ID] = pos
			users = append(users, user)
		}

		if accountNumber.Valid {
			users[pos].Accounts = append(users[pos].Accounts, domain.Account{
				AccountNumber: accountNumber.String,
				Balance:       balance.Decimal,
				Currency:      currency.String,
				Type:          accountType.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByLedgerID(ctx context.Context, ledgerID string) (domain.User, error) {
	return r.getOne(ctx, `u.ledger_id = $1`, ledgerID)
}

func (r *UserRepository) GetByLegacyUserID(ctx context.Context, legacyUserID string) (domain.User, error) {
	return r.getOne(ctx, `u.legacy_user_id = $1`, legacyUserID)
}

func (r *UserRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error) {
	return r.getOne(ctx, `u.id = (SELECT user_id FROM accounts WHERE account_number = $1)`, accountNumber)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg string) (domain.User, error) {
	query := `
SELECT u.id, u.ledger_id, u.legacy_user_id, u.name, u.email, u.pin_hash, u.created_at, u.updated_at
FROM users u
WHERE ` + where

	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.LedgerID,
		&user.LegacyUserID,
		&user.Name,
		&user.Email,
		&user.PinHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		logger.Error("user repository get failed", err, logger.Fields{"arg": arg})
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	accounts, err := r.accountsForUser(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}
	user.Accounts = accounts

	return user, nil
}

func (r *UserRepository) accountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	const query = `
SELECT account_number, balance, currency, type
FROM accounts
WHERE user_id = $1
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get accounts for user: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.AccountNumber, &account.Balance, &account.Currency, &account.Type); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	return accounts, nil
}

func (r *UserRepository) GetAccountByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT account_number, balance, currency, type
FROM accounts
WHERE account_number = $1`

	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.AccountNumber,
		&account.Balance,
		&account.Currency,
		&account.Type,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		logger.Error("user repository get account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("get account by number: %w", err)
	}

	return account, nil
}

// IncrementBalance applies a signed delta to one account in a single
// conditional update. The balance guard runs at apply time, not before:
// a debit that no longer fits fails here without mutating.
func (r *UserRepository) IncrementBalance(ctx context.Context, ledgerID string, accountNumber string, delta decimal.Decimal) (domain.Account, error) {
	logger.Info("user repository increment balance", logger.Fields{
		"ledgerId":      ledgerID,
		"accountNumber": accountNumber,
		"delta":         delta,
	})

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
	err := r.db.QueryRowContext(ctx, query, ledgerID, accountNumber, delta).Scan(
		&account.AccountNumber,
		&account.Balance,
		&account.Currency,
		&account.Type,
	)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("user repository increment balance failed", err, logger.Fields{
			"ledgerId":      ledgerID,
			"accountNumber": accountNumber,
		})
		return domain.Account{}, fmt.Errorf("increment balance: %w", err)
	}

	// No row updated: either the account is missing for that owner, or
	// the guard rejected the debit.
	const ownedQuery = `
SELECT EXISTS (
	SELECT 1
	FROM accounts a
	JOIN users u ON u.id = a.user_id
	WHERE u.ledger_id = $1 AND a.account_number = $2
)`
	var owned bool
	if checkErr := r.db.QueryRowContext(ctx, ownedQuery, ledgerID, accountNumber).Scan(&owned); checkErr != nil {
		return domain.Account{}, fmt.Errorf("increment balance ownership check: %w", checkErr)
	}
	if !owned {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return domain.Account{}, domain.ErrInsufficientFunds
}

// AddAccount attaches one more account to an existing user. The unique
// index on account_number rejects duplicates.
func (r *UserRepository) AddAccount(ctx context.Context, ledgerID string, account domain.Account) (domain.User, error) {
	logger.Info("user repository add account", logger.Fields{
		"ledgerId":      ledgerID,
		"accountNumber": account.AccountNumber,
	})

	const query = `
INSERT INTO accounts (user_id, account_number, balance, currency, type)
SELECT u.id, $2, $3, $4, $5
FROM users u
WHERE u.ledger_id = $1`

	result, err := r.db.ExecContext(
		ctx,
		query,
		ledgerID,
		account.AccountNumber,
		account.Balance,
		account.Currency,
		account.Type,
	)
	if err != nil {
		logger.Error("user repository add account failed", err, logger.Fields{
			"ledgerId":      ledgerID,
			"accountNumber": account.AccountNumber,
		})
		return domain.User{}, fmt.Errorf("add account %s: %w", account.AccountNumber, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.User{}, fmt.Errorf("add account rows affected: %w", err)
	}
	if rows == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	return r.GetByLedgerID(ctx, ledgerID)
}

func (r *UserRepository) UpdatePin(ctx context.Context, ledgerID string, pinHash string) error {
	const query = `
UPDATE users
SET pin_hash = $2,
    updated_at = NOW()
WHERE ledger_id = $1`

	result, err := r.db.ExecContext(ctx, query, ledgerID, pinHash)
	if err != nil {
		logger.Error("user repository update pin failed", err, logger.Fields{
			"ledgerId": ledgerID,
		})
		return fmt.Errorf("update pin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pin rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	logger.Info("user repository update pin success", logger.Fields{
		"ledgerId": ledgerID,
	})
	return nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete all users: %w", err)
	}
	return nil
}
