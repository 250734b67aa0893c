package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// AuthRepository persists development-backend accounts.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
