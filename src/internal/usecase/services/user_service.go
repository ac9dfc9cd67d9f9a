package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/logger"
	"github.com/api-sage/smartbank-demo/src/internal/security"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/service_interfaces"
)

// Verify that UserService implements the service_interfaces.UserService interface
var _ service_interfaces.UserService = (*UserService)(nil)

type UserService struct {
	users    domain.UserRepository
	bankName string
}

func NewUserService(users domain.UserRepository, bankName string) *UserService {
	return &UserService{users: users, bankName: strings.TrimSpace(bankName)}
}

// ListUsers returns the identity-picker summaries: one entry per user
// with the primary account's number and balance.
func (s *UserService) ListUsers(ctx context.Context) (commons.Response[[]models.UserSummaryResponse], error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		logger.Error("user service list users failed", err, nil)
		return commons.ErrorResponse[[]models.UserSummaryResponse]("failed to list users", "Unable to fetch users right now"), err
	}

	summaries := make([]models.UserSummaryResponse, 0, len(users))
	for _, user := range users {
		account, ok := user.PrimaryAccount()
		if !ok {
			continue
		}
		summaries = append(summaries, models.UserSummaryResponse{
			UserID:        user.LegacyUserID,
			LedgerID:      user.LedgerID,
			Name:          user.Name,
			Bank:          s.bankName,
			AccountNumber: account.AccountNumber,
			MaskedAccount: models.MaskAccountNumber(account.AccountNumber),
			Balance:       account.Balance,
			Currency:      account.Currency,
		})
	}

	return commons.SuccessResponse("users fetched successfully", summaries), nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (commons.Response[models.GetUserResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := errors.New("id is required")
		return commons.ErrorResponse[models.GetUserResponse]("validation failed", err.Error()), err
	}

	user, err := s.resolveUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.GetUserResponse]("User not found"), err
		}
		logger.Error("user service get user failed", err, logger.Fields{"userId": id})
		return commons.ErrorResponse[models.GetUserResponse]("failed to get user", "Unable to fetch user right now"), err
	}

	accounts := make([]models.AccountResponse, 0, len(user.Accounts))
	for _, account := range user.Accounts {
		accounts = append(accounts, models.AccountResponse{
			AccountNumber:    account.AccountNumber,
			FormattedAccount: models.FormatAccountNumber(account.AccountNumber),
			Balance:          account.Balance,
			Currency:         account.Currency,
			Type:             account.Type,
		})
	}

	response := models.GetUserResponse{
		UserID:   user.LegacyUserID,
		LedgerID: user.LedgerID,
		Name:     user.Name,
		Email:    user.Email,
		Bank:     s.bankName,
		Accounts: accounts,
	}
	return commons.SuccessResponse("user fetched successfully", response), nil
}

func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.CreateUserResponse], error) {
	logger.Info("user service create user request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CreateUserResponse]("validation failed", err.Error()), err
	}

	pin := strings.TrimSpace(req.Pin)
	if !security.ValidPinFormat(pin) {
		err := errors.New("pin must be exactly 6 digits")
		return commons.ErrorResponse[models.CreateUserResponse]("validation failed", err.Error()), err
	}

	pinHash, err := security.HashPin(pin)
	if err != nil {
		logger.Error("user service create user hash pin failed", err, nil)
		return commons.ErrorResponse[models.CreateUserResponse]("failed to create user", "failed to hash pin"), err
	}

	accounts := make([]domain.Account, 0, len(req.Accounts))
	for _, account := range req.Accounts {
		currency := strings.ToUpper(strings.TrimSpace(account.Currency))
		if currency == "" {
			currency = domain.DefaultCurrency
		}
		accounts = append(accounts, domain.Account{
			AccountNumber: strings.TrimSpace(account.AccountNumber),
			Balance:       account.Balance,
			Currency:      currency,
			Type:          strings.TrimSpace(account.Type),
		})
	}

	created, err := s.users.Create(ctx, domain.User{
		LedgerID:     strings.TrimSpace(req.LedgerID),
		LegacyUserID: strings.TrimSpace(req.LegacyUserID),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PinHash:      pinHash,
		Accounts:     accounts,
	})
	if err != nil {
		logger.Error("user service create user repository failed", err, logger.Fields{
			"ledgerId": req.LedgerID,
		})
		return commons.ErrorResponse[models.CreateUserResponse]("failed to create user", "Unable to create user right now"), err
	}

	logger.Info("user service create user success", logger.Fields{
		"userId":   created.ID,
		"ledgerId": created.LedgerID,
	})

	response := models.CreateUserResponse{
		UserID:   created.LegacyUserID,
		LedgerID: created.LedgerID,
		Name:     created.Name,
	}
	return commons.SuccessResponse("user created successfully", response), nil
}

// AddAccount opens an additional account for an existing user. The
// store enforces account-number uniqueness across all users.
func (s *UserService) AddAccount(ctx context.Context, id string, req models.AddAccountRequest) (commons.Response[models.AddAccountResponse], error) {
	logger.Info("user service add account request", logger.Fields{
		"userId":  id,
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AddAccountResponse]("validation failed", err.Error()), err
	}

	user, err := s.resolveUser(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.AddAccountResponse]("User not found"), err
		}
		logger.Error("user service add account resolve failed", err, logger.Fields{"userId": id})
		return commons.ErrorResponse[models.AddAccountResponse]("failed to add account", "Unable to add account right now"), err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	updated, err := s.users.AddAccount(ctx, user.LedgerID, domain.Account{
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Balance:       req.Balance,
		Currency:      currency,
		Type:          strings.TrimSpace(req.Type),
	})
	if err != nil {
		logger.Error("user service add account repository failed", err, logger.Fields{
			"ledgerId":      user.LedgerID,
			"accountNumber": req.AccountNumber,
		})
		return commons.ErrorResponse[models.AddAccountResponse]("failed to add account", "Unable to add account right now"), err
	}

	accounts := make([]models.AccountResponse, 0, len(updated.Accounts))
	for _, account := range updated.Accounts {
		accounts = append(accounts, models.AccountResponse{
			AccountNumber:    account.AccountNumber,
			FormattedAccount: models.FormatAccountNumber(account.AccountNumber),
			Balance:          account.Balance,
			Currency:         account.Currency,
			Type:             account.Type,
		})
	}

	response := models.AddAccountResponse{
		UserID:   updated.LegacyUserID,
		LedgerID: updated.LedgerID,
		Accounts: accounts,
	}
	return commons.SuccessResponse("account added successfully", response), nil
}

func (s *UserService) UpdatePin(ctx context.Context, id string, req models.UpdatePinRequest) (commons.Response[models.UpdatePinResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.UpdatePinResponse]("validation failed", err.Error()), err
	}

	newPin := strings.TrimSpace(req.NewPin)
	if !security.ValidPinFormat(newPin) {
		err := errors.New("newPin must be exactly 6 digits")
		return commons.ErrorResponse[models.UpdatePinResponse]("validation failed", err.Error()), err
	}

	user, err := s.resolveUser(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return commons.ErrorResponse[models.UpdatePinResponse]("User not found"), err
		}
		return commons.ErrorResponse[models.UpdatePinResponse]("failed to update pin", "Unable to update pin right now"), err
	}

	pinHash, err := security.HashPin(newPin)
	if err != nil {
		return commons.ErrorResponse[models.UpdatePinResponse]("failed to update pin", "failed to hash pin"), err
	}

	if err := s.users.UpdatePin(ctx, user.LedgerID, pinHash); err != nil {
		logger.Error("user service update pin failed", err, logger.Fields{
			"ledgerId": user.LedgerID,
		})
		return commons.ErrorResponse[models.UpdatePinResponse]("failed to update pin", "Unable to update pin right now"), err
	}

	response := models.UpdatePinResponse{LedgerID: user.LedgerID, Updated: true}
	return commons.SuccessResponse("pin updated successfully", response), nil
}

func (s *UserService) resolveUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByLegacyUserID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	return s.users.GetByLedgerID(ctx, id)
}
