package storage

import (
	"context"
	"time"
)

// Run is one recorded documentation run.
type Run struct {
	ID             int64
	Readme         string
	StartedAt      time.Time
	FinishedAt     time.Time
	TotalFiles     int
	TotalClasses   int
	TotalFunctions int
	Failed         []string // files that did not parse
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunHistory persists documentation runs.
type RunHistory interface {
	// RecordRun stores a run and returns its ID.
	RecordRun(ctx context.Context, run Run) (int64, error)

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}
