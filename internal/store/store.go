// Package store persists bridge pairing credentials in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Credentials identify a paired Hue bridge.
type Credentials struct {
	Host     string
	Username string
}

// Store wraps the SQLite credential database.
type Store struct {
	db *sql.DB
}

// Open opens the database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	// Single-row table: one paired bridge per store.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bridge_credentials (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			host TEXT NOT NULL,
			username TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create bridge_credentials table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Credentials returns the stored bridge credentials, or nil when no
// bridge has been paired yet.
func (s *Store) Credentials() (*Credentials, error) {
	var c Credentials
	err := s.db.QueryRow(`SELECT host, username FROM bridge_credentials WHERE id = 1`).
		Scan(&c.Host, &c.Username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	return &c, nil
}

// SaveCredentials stores the credentials, replacing any previous pairing.
func (s *Store) SaveCredentials(c Credentials) error {
	_, err := s.db.Exec(`
		INSERT INTO bridge_credentials (id, host, username, created_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			host = excluded.host,
			username = excluded.username,
			created_at = excluded.created_at
	`, c.Host, c.Username, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the stored pairing. Used when stored
// credentials turn out to be stale.
func (s *Store) DeleteCredentials() error {
	_, err := s.db.Exec(`DELETE FROM bridge_credentials WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}
