// Package store persists local state between digest runs: a
// repository-metadata cache and a run history. Everything here is an
// optimization; callers degrade to direct lookups when the store is
// unavailable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the local SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and migrates) the database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ghdigest.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS repos (
		api_url    TEXT PRIMARY KEY,
		html_url   TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		username    TEXT NOT NULL,
		events      INTEGER NOT NULL,
		repos       INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at  DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Repo cache operations

// GetRepoURL returns the cached display URL for an API locator, or
// "" when missing or older than maxAge.
func (s *Store) GetRepoURL(ctx context.Context, apiURL string, maxAge time.Duration) (string, error) {
	var htmlURL string
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT html_url, fetched_at FROM repos WHERE api_url = ?
	`, apiURL).Scan(&htmlURL, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if maxAge > 0 && time.Since(fetchedAt) > maxAge {
		return "", nil
	}
	return htmlURL, nil
}

// PutRepoURL stores or refreshes the display URL for an API locator.
func (s *Store) PutRepoURL(ctx context.Context, apiURL, htmlURL string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO repos (api_url, html_url, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(api_url) DO UPDATE SET
			html_url = excluded.html_url,
			fetched_at = excluded.fetched_at
	`, apiURL, htmlURL, time.Now().UTC())
	return err
}

// ClearRepos drops every cached repository record.
func (s *Store) ClearRepos(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM repos`)
	return err
}

// Run history operations

// Run is one completed digest run.
type Run struct {
	ID         string
	Username   string
	Events     int
	Repos      int
	DurationMs int64
	CreatedAt  time.Time
}

// NewRun returns a run record with a fresh id and timestamp.
func NewRun(username string, events, repos int, duration time.Duration) Run {
	return Run{
		ID:         uuid.New().String(),
		Username:   username,
		Events:     events,
		Repos:      repos,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}

// RecordRun appends a run to the history.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, username, events, repos, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Username, run.Events, run.Repos, run.DurationMs, run.CreatedAt)
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, events, repos, duration_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Username, &r.Events, &r.Repos, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats summarizes the local state for `cache stats`.
type Stats struct {
	Repos int
	Runs  int
	Path  string
}

// Stats returns row counts and the database location.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Path: s.path}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM repos`).Scan(&st.Repos); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.Runs); err != nil {
		return st, err
	}
	return st, nil
}
