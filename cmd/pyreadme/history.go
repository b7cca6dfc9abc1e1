package main

import (
	"context"

	"pyreadme/internal/generator"
	"pyreadme/internal/storage"
)

// historyRecorder stores finished updater runs in the run history.
type historyRecorder struct {
	store storage.RunHistory
}

func (h historyRecorder) RecordRun(ctx context.Context, readme string, stats generator.RunStatistics) error {
	_, err := h.store.RecordRun(ctx, storage.Run{
		Readme:         readme,
		StartedAt:      stats.Start,
		FinishedAt:     stats.End,
		TotalFiles:     stats.TotalFiles,
		TotalClasses:   stats.TotalClasses,
		TotalFunctions: stats.TotalFunctions,
		Failed:         stats.Failed,
	})
	return err
}
