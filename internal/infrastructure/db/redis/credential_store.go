package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
	"github.com/payments-portal/portal/internal/infrastructure/credstore"
)

// CredentialStore keeps the credential record under two keys:
// <prefix>token and <prefix>user. Save writes both in one MULTI/EXEC.
type CredentialStore struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(client *redis.Client, prefix string, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{client: client, prefix: prefix, log: log}
}

func (s *CredentialStore) Save(ctx context.Context, token string, user domain.User) error {
	raw, err := credstore.EncodeUser(user)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(credstore.KeyToken), token, 0)
		pipe.Set(ctx, s.key(credstore.KeyUser), raw, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (string, domain.User, bool) {
	vals, err := s.client.MGet(ctx, s.key(credstore.KeyToken), s.key(credstore.KeyUser)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("credential store unreadable")
		}
		return "", domain.User{}, false
	}

	token, _ := vals[0].(string)
	raw, _ := vals[1].(string)
	if token == "" || raw == "" {
		return "", domain.User{}, false
	}
	user, ok := credstore.DecodeUser(raw)
	if !ok {
		s.log.Warn().Msg("stored user record is corrupt, ignoring")
		return "", domain.User{}, false
	}
	return token, user, true
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(credstore.KeyToken), s.key(credstore.KeyUser)).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) key(name string) string {
	return s.prefix + name
}
