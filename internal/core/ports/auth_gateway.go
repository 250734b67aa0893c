package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// LoginResult is the validated body of a successful POST /auth/login.
type LoginResult struct {
	Token string      `json:"token" validate:"required"`
	User  domain.User `json:"user"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthGateway issues the authentication calls of the payments backend.
// Rejections surface as *domain.BackendError.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, in RegisterInput) error
}
