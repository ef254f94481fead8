// Package history records build outcomes in a SQLite database under the
// package state directory, one row per persisting build.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded build.
type Entry struct {
	BuildID   string
	CreatedAt time.Time
	Decision  string
	Version   string
	Objects   int
	Commit    string
}

// Store persists build history.
type Store interface {
	// Append adds a build record.
	Append(ctx context.Context, e Entry) error

	// Recent returns the most recent builds, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close closes the store and releases resources.
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the history database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		decision TEXT NOT NULL,
		version TEXT NOT NULL,
		objects INTEGER NOT NULL,
		commit_sha TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a build record.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (build_id, created_at, decision, version, objects, commit_sha)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.BuildID, created.UnixMilli(), e.Decision, e.Version, e.Objects, e.Commit)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns the most recent builds, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, created_at, decision, version, objects, commit_sha
		 FROM builds ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdMilli int64
		var commit sql.NullString
		if err := rows.Scan(&e.BuildID, &createdMilli, &e.Decision, &e.Version, &e.Objects, &commit); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		e.CreatedAt = time.UnixMilli(createdMilli)
		e.Commit = commit.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
