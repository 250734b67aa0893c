package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// AuthService is the account logic of the development backend.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
