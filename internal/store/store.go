// Package store defines the persistence interface for annotate run
// history. The remote comment set is the only state the pipeline
// depends on; the run history exists for operators inspecting past runs.
package store

import (
	"context"
	"time"
)

// Store persists annotate run summaries.
type Store interface {
	// SaveRun records the outcome of one annotate run.
	SaveRun(ctx context.Context, run Run) error

	// ListRuns returns the most recent runs for a repository, newest
	// first, up to limit.
	ListRuns(ctx context.Context, repository string, limit int) ([]Run, error)

	Close() error
}

// Run is one annotate execution against a pull request.
type Run struct {
	RunID           string
	Timestamp       time.Time
	Repository      string
	PullNumber      int
	TotalFindings   int
	InDiff          int
	OutOfDiff       int
	CommentsAdded   int
	CommentsDeleted int
	Limited         bool
}
