package credstore

import (
	"context"
	"sync"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

// MemoryStore keeps the credential record in process memory. It stores the
// encoded form so that it fails on the same corrupt records as the durable
// stores.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

var _ ports.CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

func (s *MemoryStore) Save(_ context.Context, token string, user domain.User) error {
	raw, err := EncodeUser(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[KeyToken] = token
	s.data[KeyUser] = raw
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (string, domain.User, bool) {
	s.mu.Lock()
	token, hasToken := s.data[KeyToken]
	raw, hasUser := s.data[KeyUser]
	s.mu.Unlock()

	if !hasToken || !hasUser || token == "" {
		return "", domain.User{}, false
	}
	user, ok := DecodeUser(raw)
	if !ok {
		return "", domain.User{}, false
	}
	return token, user, true
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, KeyToken)
	delete(s.data, KeyUser)
	return nil
}
