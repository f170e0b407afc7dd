package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps blobs as rows in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) a SQLite blob store.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and shared.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS blobs (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Open reads the blob row into memory and returns a reader over it.
func (s *SQLiteStore) Open(name string) (io.ReadCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err = s.db.QueryRow("SELECT data FROM blobs WHERE name = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query blob: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer that upserts the row on Close.
func (s *SQLiteStore) Create(name string) (io.WriteCloser, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return &bufferedWriter{commit: func(data []byte) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		_, err := s.db.Exec(`
			INSERT INTO blobs (name, data, updated_at) VALUES (?, ?, strftime('%s','now'))
			ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			key, data)
		if err != nil {
			return fmt.Errorf("write blob: %w", err)
		}
		return nil
	}}, nil
}

// Remove deletes the blob row.
func (s *SQLiteStore) Remove(name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM blobs WHERE name = ?", key)
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Rename changes the row key.
func (s *SQLiteStore) Rename(oldName, newName string) error {
	from, err := cleanName(oldName)
	if err != nil {
		return err
	}
	to, err := cleanName(newName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM blobs WHERE name = ?", to).Scan(&exists); err != nil {
		return fmt.Errorf("query blob: %w", err)
	}
	if exists > 0 {
		return ErrExists
	}

	res, err := s.db.Exec("UPDATE blobs SET name = ? WHERE name = ?", to, from)
	if err != nil {
		return fmt.Errorf("rename blob: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Storage = (*SQLiteStore)(nil)
