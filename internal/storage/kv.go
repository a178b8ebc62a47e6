// Package storage provides the best-effort durable local cache. It is a
// key-value surface over SQLite; the in-memory timeline stays authoritative
// and treats every failure here as a degradation, not an error.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"thumbforge/internal/domain"
)

// Well-known keys on the durable surface.
const (
	KeyTimeline   = "history_timeline_v1"
	KeyEngagement = "engagement_clicks"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS counters (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL DEFAULT 0
);`

// KV is a capacity-bounded key-value store. Put rejects values larger than
// MaxBytes with domain.ErrCapacityExceeded so callers can run their eviction
// policy.
type KV struct {
	db       *sql.DB
	maxBytes int
}

// Open opens (or creates) the SQLite database at path and prepares the
// key-value schema. maxBytes <= 0 disables the capacity check.
func Open(path string, maxBytes int) (*KV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	// WAL keeps the debounced background writes from blocking reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: enable wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ensure schema: %w", err)
	}
	return &KV{db: db, maxBytes: maxBytes}, nil
}

// Close releases the underlying database handle.
func (s *KV) Close() error {
	return s.db.Close()
}

// MaxBytes returns the configured capacity, 0 meaning unbounded.
func (s *KV) MaxBytes() int {
	return s.maxBytes
}

// Put stores value under key, failing with domain.ErrCapacityExceeded when
// the value does not fit the configured capacity.
func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	if s.maxBytes > 0 && len(value) > s.maxBytes {
		return fmt.Errorf("storage: %d bytes for %q: %w", len(value), key, domain.ErrCapacityExceeded)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("storage: put %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key, or (nil, nil) when the key is
// absent.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get %q: %w", key, err)
	}
	return value, nil
}

// Delete removes key from the store. Deleting an absent key is a no-op.
func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}

// IncrementCounter bumps the named counter and returns its new value.
func (s *KV) IncrementCounter(ctx context.Context, key string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counters (key, value) VALUES (?, 1)
		 ON CONFLICT(key) DO UPDATE SET value = value + 1
		 RETURNING value`,
		key).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("storage: increment %q: %w", key, err)
	}
	return value, nil
}

// Counter returns the named counter's current value, 0 when absent.
func (s *KV) Counter(ctx context.Context, key string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: counter %q: %w", key, err)
	}
	return value, nil
}
