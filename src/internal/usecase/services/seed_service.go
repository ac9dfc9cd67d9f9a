package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
	"github.com/api-sage/smartbank-demo/src/internal/security"
)

// SeedService resets both stores and loads the demo dataset: four users
// with one account each, plus three settled transfers of history. All
// demo users share the same PIN so the walkthrough needs only one code.
type SeedService struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
	pin          string
}

func NewSeedService(users domain.UserRepository, transactions domain.TransactionRepository, pin string) *SeedService {
	return &SeedService{users: users, transactions: transactions, pin: pin}
}

type seedUser struct {
	ledgerID      string
	legacyUserID  string
	name          string
	email         string
	accountNumber string
	balance       string
	accountType   string
}

type seedTransfer struct {
	legacyID    string
	from        int
	to          int
	amount      string
	timestamp   string
	description string
	notes       string
	referenceID string
}

var seedUsers = []seedUser{
	{"User1@smartbanka.com", "user001", "Nguyen Van A", "nguyenvana@smartbanka.com", "100000000001", "50000000", "Savings"},
	{"User2@smartbanka.com", "user002", "Tran Thi B", "tranthib@smartbanka.com", "100000000002", "75000000", "Current"},
	{"User3@smartbanka.com", "user003", "Le Van C", "levanc@smartbanka.com", "100000000003", "120000000", "Savings"},
	{"User4@smartbanka.com", "user004", "Pham Thi D", "phamthid@smartbanka.com", "100000000004", "85000000", "Current"},
}

var seedTransfers = []seedTransfer{
	{"TX001", 0, 1, "5000000", "2023-10-15T10:30:00Z", "Chuyển tiền học phí", "Học phí kỳ 1 năm 2023", "REF001"},
	{"TX002", 2, 0, "2000000", "2023-10-17T14:45:00Z", "Hoàn trả tiền", "Trả lại tiền mượn tháng trước", "REF002"},
	{"TX003", 1, 3, "10000000", "2023-10-20T09:15:00Z", "Chuyển tiền đầu tư", "Góp vốn kinh doanh", "REF003"},
}

func (s *SeedService) Seed(ctx context.Context) error {
	if !security.ValidPinFormat(s.pin) {
		return fmt.Errorf("seed pin must be exactly %d digits", security.PinLength)
	}
	pinHash, err := security.HashPin(s.pin)
	if err != nil {
		return fmt.Errorf("hash seed pin: %w", err)
	}

	if err := s.transactions.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err := s.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	for _, u := range seedUsers {
		balance, err := decimal.NewFromString(u.balance)
		if err != nil {
			return fmt.Errorf("seed user %s balance: %w", u.legacyUserID, err)
		}
		_, err = s.users.Create(ctx, domain.User{
			LedgerID:     u.ledgerID,
			LegacyUserID: u.legacyUserID,
			Name:         u.name,
			Email:        u.email,
			PinHash:      pinHash,
			Accounts: []domain.Account{{
				AccountNumber: u.accountNumber,
				Balance:       balance,
				Currency:      domain.DefaultCurrency,
				Type:          u.accountType,
			}},
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.legacyUserID, err)
		}
	}

	for _, t := range seedTransfers {
		amount, err := decimal.NewFromString(t.amount)
		if err != nil {
			return fmt.Errorf("seed transfer %s amount: %w", t.legacyID, err)
		}
		ts, err := time.Parse(time.RFC3339, t.timestamp)
		if err != nil {
			return fmt.Errorf("seed transfer %s timestamp: %w", t.legacyID, err)
		}
		from, to := seedUsers[t.from], seedUsers[t.to]
		_, err = s.transactions.Create(ctx, domain.Transaction{
			LegacyTransactionID: t.legacyID,
			SenderLedgerID:      from.ledgerID,
			SenderAccount:       from.accountNumber,
			RecipientLedgerID:   to.ledgerID,
			RecipientAccount:    to.accountNumber,
			Amount:              amount,
			Currency:            domain.DefaultCurrency,
			Status:              domain.TransactionStatusCompleted,
			Type:                domain.TransactionTypeTransfer,
			Timestamp:           ts,
			Description:         t.description,
			ReferenceID:         t.referenceID,
			Notes:               t.notes,
		})
		if err != nil {
			return fmt.Errorf("seed transfer %s: %w", t.legacyID, err)
		}
	}

	logger.Info("seed completed", logger.Fields{
		"users":        len(seedUsers),
		"transactions": len(seedTransfers),
	})
	return nil
}
