package credstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/payments-portal/portal/internal/core/domain"
	"github.com/payments-portal/portal/internal/core/ports"
)

const createCredentialsTable = `
CREATE TABLE IF NOT EXISTS credentials (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const upsertCredential = `
INSERT INTO credentials (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// SQLiteStore persists the credential record as two rows of a key/value
// table. Save and Clear touch both rows inside one transaction.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

var _ ports.CredentialStore = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB, log zerolog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

// Init creates the credentials table.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCredentialsTable); err != nil {
		return fmt.Errorf("create credentials table: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Save(ctx context.Context, token string, user domain.User) error {
	raw, err := EncodeUser(user)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credential tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, kv := range [][2]string{{KeyToken, token}, {KeyUser, raw}} {
		if _, err := tx.ExecContext(ctx, upsertCredential, kv[0], kv[1]); err != nil {
			return fmt.Errorf("write %s: %w", kv[0], err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credential tx: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (string, domain.User, bool) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM credentials WHERE key IN (?, ?)`, KeyToken, KeyUser)
	if err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable")
		return "", domain.User{}, false
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			s.log.Warn().Err(err).Msg("credential row unreadable")
			return "", domain.User{}, false
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("credential store unreadable")
		return "", domain.User{}, false
	}

	token, raw := values[KeyToken], values[KeyUser]
	if token == "" || raw == "" {
		return "", domain.User{}, false
	}
	user, ok := DecodeUser(raw)
	if !ok {
		s.log.Warn().Msg("stored user record is corrupt, ignoring")
		return "", domain.User{}, false
	}
	return token, user, true
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`, KeyToken, KeyUser); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
