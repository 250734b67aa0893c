// Package memory holds the in-process repositories used by the development
// backend when no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

type AccountRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]*domain.Account
}

var _ ports.AuthRepository = (*AccountRepository)(nil)

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byEmail: make(map[string]*domain.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := *account
	stored.ID = r.nextID
	r.byEmail[stored.Email] = &stored

	out := stored
	return &out, nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *a
	return &out, nil
}
