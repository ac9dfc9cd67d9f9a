package service_interfaces

import (
	"context"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/models"
	"github.com/api-sage/smartbank-demo/src/internal/commons"
)

type UserService interface {
	ListUsers(ctx context.Context) (commons.Response[[]models.UserSummaryResponse], error)
	GetUser(ctx context.Context, id string) (commons.Response[models.GetUserResponse], error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.CreateUserResponse], error)
	AddAccount(ctx context.Context, id string, req models.AddAccountRequest) (commons.Response[models.AddAccountResponse], error)
	UpdatePin(ctx context.Context, id string, req models.UpdatePinRequest) (commons.Response[models.UpdatePinResponse], error)
}
