// Package sqlite persists annotate run history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/diff-annotate/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per annotate run against a pull request
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		repository TEXT NOT NULL,
		pull_number INTEGER NOT NULL,
		total_findings INTEGER NOT NULL,
		in_diff INTEGER NOT NULL,
		out_of_diff INTEGER NOT NULL,
		comments_added INTEGER NOT NULL,
		comments_deleted INTEGER NOT NULL,
		limited INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_repository ON runs(repository, timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records the outcome of one annotate run.
func (s *Store) SaveRun(ctx context.Context, run store.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, timestamp, repository, pull_number,
			total_findings, in_diff, out_of_diff,
			comments_added, comments_deleted, limited
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.Timestamp.Unix(),
		run.Repository,
		run.PullNumber,
		run.TotalFindings,
		run.InDiff,
		run.OutOfDiff,
		run.CommentsAdded,
		run.CommentsDeleted,
		boolToInt(run.Limited),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs for a repository, newest first.
func (s *Store) ListRuns(ctx context.Context, repository string, limit int) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, timestamp, repository, pull_number,
		       total_findings, in_diff, out_of_diff,
		       comments_added, comments_deleted, limited
		FROM runs
		WHERE repository = ?
		ORDER BY timestamp DESC
		LIMIT ?`,
		repository, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var ts int64
		var limited int
		if err := rows.Scan(
			&run.RunID, &ts, &run.Repository, &run.PullNumber,
			&run.TotalFindings, &run.InDiff, &run.OutOfDiff,
			&run.CommentsAdded, &run.CommentsDeleted, &limited,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timestamp = time.Unix(ts, 0).UTC()
		run.Limited = limited != 0
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
