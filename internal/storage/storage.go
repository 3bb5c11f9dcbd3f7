// Package storage implements the client's local persistent store.
//
// The store is a single SQLite-backed key/value table mirroring the keys the
// MovieSir web client keeps in browser local storage: accessToken,
// refreshToken, the serialized user record, and the theme preference.
// [SessionStore] layers the session lifecycle on top of the raw store.
package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Store keys persisted by the client.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyTheme        = "theme"
)

// Store is a key/value wrapper over a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over the given database connection and ensures the
// backing table exists.
func NewStore(db *sql.DB) (*Store, error) {
	query := `
		CREATE TABLE IF NOT EXISTS local_storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		return nil, fmt.Errorf("failed to create storage table: %w", err)
	}

	return &Store{db: db}, nil
}

// Get retrieves the value for a key. Missing keys return ("", false).
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value under a key, replacing any prior value.
func (s *Store) Set(key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}
