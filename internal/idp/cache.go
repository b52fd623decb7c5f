package idp

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mossriver/poolside/internal/shared"
)

// SessionCache persists the refresh token between runs so the client can
// silently restore a session at startup. It is owned entirely by the adapter;
// the session controller never sees it.
type SessionCache struct {
	db *sql.DB
}

// CachedSession is the single row the cache holds.
type CachedSession struct {
	Username     string
	RefreshToken string
	UpdatedAt    time.Time
}

// OpenSessionCache opens (creating if needed) the cache database at path.
func OpenSessionCache(path string) (*SessionCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrCacheUnavailable, err)
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCacheUnavailable, err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	// The file holds a live refresh token; keep it owner-only.
	if err := os.Chmod(path, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict cache permissions: %w", err)
	}

	return &SessionCache{db: db}, nil
}

// Load returns the cached session, or nil when none is stored.
func (c *SessionCache) Load() (*CachedSession, error) {
	query := `SELECT username, refresh_token, updated_at FROM sessions WHERE id = 1`

	var s CachedSession
	err := c.db.QueryRow(query).Scan(&s.Username, &s.RefreshToken, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

// Store saves the session, replacing any previous one.
func (c *SessionCache) Store(username, refreshToken string) error {
	query := `
		INSERT OR REPLACE INTO sessions (id, username, refresh_token, updated_at)
		VALUES (1, ?, ?, ?)
	`

	if _, err := c.db.Exec(query, username, refreshToken, time.Now()); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Clear removes the cached session.
func (c *SessionCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *SessionCache) Close() error {
	return c.db.Close()
}
