package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStoreUnavailable is returned when the database cannot be opened or is
// not configured.
var ErrStoreUnavailable = errors.New("store unavailable")

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrStoreUnavailable)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS leetcode_snapshot (
  username            TEXT PRIMARY KEY,
  total_solved        INTEGER NOT NULL DEFAULT 0,
  easy_solved         INTEGER NOT NULL DEFAULT 0,
  medium_solved       INTEGER NOT NULL DEFAULT 0,
  hard_solved         INTEGER NOT NULL DEFAULT 0,
  total_easy          INTEGER NOT NULL DEFAULT 0,
  total_medium        INTEGER NOT NULL DEFAULT 0,
  total_hard          INTEGER NOT NULL DEFAULT 0,
  acceptance_rate     REAL    NOT NULL DEFAULT 0,
  ranking             INTEGER NOT NULL DEFAULT 0,
  contribution_points INTEGER NOT NULL DEFAULT 0,
  reputation          INTEGER NOT NULL DEFAULT 0,
  last_delta          INTEGER NOT NULL DEFAULT 0,
  updated_at          TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS solve_history (
  id              INTEGER PRIMARY KEY,
  username        TEXT    NOT NULL,
  problems_solved INTEGER NOT NULL CHECK (problems_solved > 0),
  total_at_time   INTEGER NOT NULL,
  solved_at       TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_solve_user_time ON solve_history(username, solved_at);
CREATE INDEX IF NOT EXISTS idx_solve_time ON solve_history(solved_at);
CREATE TABLE IF NOT EXISTS sync_history (
  id                  INTEGER PRIMARY KEY,
  username            TEXT    NOT NULL,
  total_solved        INTEGER NOT NULL DEFAULT 0,
  easy_solved         INTEGER NOT NULL DEFAULT 0,
  medium_solved       INTEGER NOT NULL DEFAULT 0,
  hard_solved         INTEGER NOT NULL DEFAULT 0,
  acceptance_rate     REAL    NOT NULL DEFAULT 0,
  ranking             INTEGER NOT NULL DEFAULT 0,
  contribution_points INTEGER NOT NULL DEFAULT 0,
  reputation          INTEGER NOT NULL DEFAULT 0,
  synced_at           TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_user_time ON sync_history(username, synced_at);
CREATE TABLE IF NOT EXISTS recent_submissions (
  id             INTEGER PRIMARY KEY,
  username       TEXT    NOT NULL,
  problem_title  TEXT    NOT NULL,
  problem_number INTEGER NOT NULL DEFAULT 0,
  problem_slug   TEXT    NOT NULL,
  difficulty     TEXT    NOT NULL DEFAULT '',
  submitted_at   TEXT    NOT NULL,
  synced_at      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recent_user_time ON recent_submissions(username, submitted_at);
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", ErrStoreUnavailable, err)
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// SQLite CURRENT_TIMESTAMP format, for rows written by hand in the shell.
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
