// Package history records ingestion runs in a local SQLite database so the
// API can report what was trained, when, and how it went.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kind distinguishes the two ingestion pipelines.
type Kind string

const (
	KindDocuments Kind = "documents"
	KindDataset   Kind = "dataset"
)

// RunStatus is the lifecycle state of one ingestion run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is a single recorded ingestion run.
type Run struct {
	ID         string     `json:"id"`
	Kind       Kind       `json:"kind"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     RunStatus  `json:"status"`
	Processed  int        `json:"processed"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Message    string     `json:"message,omitempty"`
}

// Store persists ingestion runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens the run database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS training_runs (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK(kind IN ('documents','dataset')),
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    status TEXT NOT NULL CHECK(status IN ('running','completed','failed')),
    processed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_training_runs_started ON training_runs(started_at);
`

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Begin records the start of a run and returns its generated ID.
func (s *Store) Begin(ctx context.Context, kind Kind) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_runs (id, kind, started_at, status)
		VALUES (?, ?, ?, ?)`,
		id, string(kind), time.Now().UTC(), string(RunRunning))
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Finish records the outcome of a run.
func (s *Store) Finish(ctx context.Context, id string, status RunStatus, processed, skipped, failed int, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE training_runs
		SET finished_at = ?, status = ?, processed = ?, skipped = ?, failed = ?, message = ?
		WHERE id = ?`,
		time.Now().UTC(), string(status), processed, skipped, failed, message, id)
	if err != nil {
		return fmt.Errorf("updating run %s: %w", id, err)
	}
	return nil
}

// Recent returns up to limit runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, started_at, finished_at, status, processed, skipped, failed, message
		FROM training_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			kind     string
			status   string
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &kind, &r.StartedAt, &finished, &status, &r.Processed, &r.Skipped, &r.Failed, &r.Message); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Kind = Kind(kind)
		r.Status = RunStatus(status)
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
