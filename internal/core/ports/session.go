package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// SessionView is the read-only side of the session used by route guards.
type SessionView interface {
	Snapshot() domain.Session
}

// SessionService is everything the portal pages may do with the session.
type SessionService interface {
	SessionView
	Login(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, in RegisterInput) error
	Logout(ctx context.Context)
}
