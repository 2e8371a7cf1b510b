package cloud

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// tokenSchema is the single-row table holding the current token pair.
// Row id is pinned to 1; there is never more than one account.
const tokenSchema = `
CREATE TABLE IF NOT EXISTS cloud_tokens (
    id            INTEGER PRIMARY KEY CHECK (id = 1),
    token         TEXT NOT NULL,
    refresh_token TEXT NOT NULL,
    updated_at    TEXT NOT NULL
)`

// SQLiteTokenStore implements TokenStore using SQLite.
type SQLiteTokenStore struct {
	db *sql.DB
}

// NewTokenStore creates the backing table if needed and returns the
// store.
func NewTokenStore(db *sql.DB) (*SQLiteTokenStore, error) {
	if _, err := db.Exec(tokenSchema); err != nil {
		return nil, fmt.Errorf("creating token table: %w", err)
	}
	return &SQLiteTokenStore{db: db}, nil
}

// Load returns the stored token pair. An empty pair (no error) means
// nothing has been saved yet.
func (s *SQLiteTokenStore) Load(ctx context.Context) (TokenPair, error) {
	var pair TokenPair
	err := s.db.QueryRowContext(ctx,
		`SELECT token, refresh_token FROM cloud_tokens WHERE id = 1`,
	).Scan(&pair.Token, &pair.RefreshToken)
	if err != nil {
		if err == sql.ErrNoRows {
			return TokenPair{}, nil
		}
		return TokenPair{}, fmt.Errorf("loading token pair: %w", err)
	}
	return pair, nil
}

// Save upserts the token pair.
func (s *SQLiteTokenStore) Save(ctx context.Context, pair TokenPair) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cloud_tokens (id, token, refresh_token, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     token = excluded.token,
		     refresh_token = excluded.refresh_token,
		     updated_at = excluded.updated_at`,
		pair.Token, pair.RefreshToken, now,
	)
	if err != nil {
		return fmt.Errorf("saving token pair: %w", err)
	}
	return nil
}
