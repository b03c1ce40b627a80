// Package runlog persists one log entry per chunk invocation and later
// reconstructs logical runs from the accumulated entries.
package runlog

import (
	"context"
	"fmt"
	"time"

	"github.com/pairlens/pairlens/internal/core/model"
)

// Appender is the append-only sink for run-log entries, partitioned by mode.
type Appender interface {
	AppendRunLog(ctx context.Context, entry model.RunLogEntry) error
}

// Recorder appends exactly one entry per chunk invocation. It never reads
// before writing and never rewrites prior entries.
type Recorder struct {
	appender Appender
}

func NewRecorder(appender Appender) *Recorder {
	return &Recorder{appender: appender}
}

// NewEntry builds the log row for one finished chunk.
func NewEntry(at time.Time, spreadsheetID, tab string, mode model.Mode, modelName string, m model.ChunkMetrics) model.RunLogEntry {
	return model.RunLogEntry{
		Timestamp:     at.UTC().Format(time.RFC3339),
		SpreadsheetID: spreadsheetID,
		Tab:           tab,
		Mode:          mode,
		Model:         modelName,
		Rows:          m.Rows(),
		Metrics:       m,
	}
}

func (r *Recorder) Record(ctx context.Context, entry model.RunLogEntry) error {
	if err := r.appender.AppendRunLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to append run log entry: %w", err)
	}
	return nil
}
