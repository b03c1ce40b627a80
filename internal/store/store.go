// Package store abstracts the spreadsheet-backed dataset: reading candidate
// rows, writing classification results back, the settings tab, and the
// append-only run log. The spreadsheet is the sole source of truth and the
// sole durability mechanism; nothing is cached across invocations.
package store

import (
	"context"

	"github.com/pairlens/pairlens/internal/core/model"
)

// RecordRow is one dataset row together with the current contents of its
// result cells. The selector inspects Score and Verdict for emptiness.
type RecordRow struct {
	Record  model.PendingRecord
	Score   string
	Verdict string
	Notes   string
}

type Store interface {
	// ID identifies the backing spreadsheet for run-log entries.
	ID() string

	// ReadRows returns all dataset rows beneath the header, in sheet order.
	ReadRows(ctx context.Context, tab string) ([]RecordRow, error)

	// WriteResults writes the three result cells for each result, targeted
	// at each result's originating row. Issued as one batch.
	WriteResults(ctx context.Context, tab string, results []model.ClassificationResult) error

	// ReadSettings returns the flat key→value settings tab contents.
	// A missing settings tab yields an empty map, not an error.
	ReadSettings(ctx context.Context) (map[string]string, error)

	// AppendRunLog appends one row to the mode-selected run-log partition.
	AppendRunLog(ctx context.Context, entry model.RunLogEntry) error

	// ReadRunLog returns the accumulated run-log rows for a mode, in sheet
	// order.
	ReadRunLog(ctx context.Context, mode model.Mode) ([]model.RunLogEntry, error)
}
