package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const createRateLimitsTable = `
CREATE TABLE IF NOT EXISTS rate_limits (
	key TEXT PRIMARY KEY,
	count INTEGER NOT NULL,
	reset_at INTEGER NOT NULL
)`

const createRateLimitMetaTable = `
CREATE TABLE IF NOT EXISTS rate_limit_meta (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

const metaKeySalt = "key_salt"

// SQLStore keeps records in a SQL table so counters survive restarts of a
// single host. reset_at is stored as unix milliseconds.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database for an SQLStore.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLStore constructs an SQLStore and creates its table when missing.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, createRateLimitsTable); err != nil {
		return nil, fmt.Errorf("create rate_limits table: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRateLimitMetaTable); err != nil {
		return nil, fmt.Errorf("create rate_limit_meta table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (Record, bool, error) {
	var (
		count   int
		resetAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT count, reset_at FROM rate_limits WHERE key = ?`, key,
	).Scan(&count, &resetAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return Record{Count: count, ResetAt: time.UnixMilli(resetAt)}, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_limits (key, count, reset_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET count = excluded.count, reset_at = excluded.reset_at
	`, key, record.Count, record.ResetAt.UnixMilli())
	return err
}

// KeySalt returns the salt stored alongside the records, generating and
// storing one on first use so hashed keys stay stable across restarts.
func (s *SQLStore) KeySalt(ctx context.Context) (string, error) {
	candidate, err := RandomSalt()
	if err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO rate_limit_meta (name, value) VALUES (?, ?)`, metaKeySalt, candidate,
	); err != nil {
		return "", fmt.Errorf("store key salt: %w", err)
	}
	var salt string
	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM rate_limit_meta WHERE name = ?`, metaKeySalt,
	).Scan(&salt); err != nil {
		return "", fmt.Errorf("load key salt: %w", err)
	}
	return salt, nil
}

// Purge deletes records whose window ended before cutoff and returns how many
// were removed.
func (s *SQLStore) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM rate_limits WHERE reset_at < ?`, cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge rate_limits: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
