package credstore

import (
	"context"
	"fmt"
)

// Put writes a raw value under key, bypassing encoding.
func (s *MemoryStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Put writes a raw value under key, bypassing encoding.
func (s *SQLiteStore) Put(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertCredential, key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
