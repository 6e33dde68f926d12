// Package history persists a log of submitted searches and their outcomes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/anisearch/internal/migrations"
	"github.com/vmunix/anisearch/internal/search"
)

// Status values stored for each search.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusStale   = "stale"
)

// Entry is one recorded search.
type Entry struct {
	ID         int64         `json:"id"`
	Query      string        `json:"query"`
	Status     string        `json:"status"`
	Results    int           `json:"results"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	SearchedAt time.Time     `json:"searched_at"`
}

// Store persists search history to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an open database. The schema must already
// exist; see Migrate.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. The returned store owns the database; call Close when done.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; completions from concurrent fetches serialize here.
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

// Migrate applies the history schema. It is safe to run repeatedly.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSearch stores one completed search. It satisfies search.Recorder.
func (s *Store) RecordSearch(ctx context.Context, o search.Outcome) error {
	var errText string
	if o.Err != nil {
		errText = o.Err.Error()
	}
	at := o.At
	if at.IsZero() {
		at = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO searches (query, status, results, error, duration_ms, searched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.Query, statusOf(o), o.Results, errText, o.Duration.Milliseconds(), at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, query, status, results, error, duration_ms, searched_at
		FROM searches
		ORDER BY searched_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.Query, &e.Status, &e.Results, &e.Error, &ms, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune removes entries older than the given duration and returns how many
// were deleted.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE searched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune searches: %w", err)
	}
	return result.RowsAffected()
}

func statusOf(o search.Outcome) string {
	switch {
	case o.Stale:
		return StatusStale
	case o.Err != nil:
		return StatusFailed
	default:
		return StatusSuccess
	}
}
