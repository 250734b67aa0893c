package ports

import (
	"context"

	"github.com/payments-portal/portal/internal/core/domain"
)

// CredentialStore persists the bearer token and the cached user profile so a
// session survives a portal restart.
type CredentialStore interface {
	// Save writes token and user as one unit; a later Load never observes
	// only one of them.
	Save(ctx context.Context, token string, user domain.User) error
	// Load returns the stored pair when both halves are present and the user
	// decodes into a valid User. Anything else (missing keys, corrupt JSON,
	// unreachable storage) is reported as ok == false.
	Load(ctx context.Context) (token string, user domain.User, ok bool)
	// Clear removes both halves. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
