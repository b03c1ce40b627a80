package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pairlens/pairlens/internal/config"
	"github.com/pairlens/pairlens/internal/core/batch"
	"github.com/pairlens/pairlens/internal/core/classify"
	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/core/runlog"
	"github.com/pairlens/pairlens/internal/core/stats"
	"github.com/pairlens/pairlens/internal/llm"
	"github.com/pairlens/pairlens/internal/metrics"
	"github.com/pairlens/pairlens/internal/store"
)

// Evaluator runs one bounded chunk of the classification pipeline per call.
// Each invocation is a clean start: pending work is re-derived from the
// store, which is the sole source of truth, so calling RunChunk again safely
// continues from wherever the previous invocation stopped.
type Evaluator struct {
	Store        store.Store
	LLM          llm.Client
	DefaultModel string
	Log          *slog.Logger
}

func NewEvaluator(st store.Store, client llm.Client, defaultModel string, log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{
		Store:        st,
		LLM:          client,
		DefaultModel: defaultModel,
		Log:          log,
	}
}

// ChunkRequest describes one chunk invocation. Limit is the caller's
// remaining row budget for the logical run; a negative Limit imposes no cap.
type ChunkRequest struct {
	Tab      string
	Mode     model.Mode
	Limit    int
	Parallel int
}

// ChunkReport is what the orchestrating caller loops on.
type ChunkReport struct {
	InvocationID  string             `json:"invocation_id"`
	Model         string             `json:"model"`
	Processed     int                `json:"processed"`
	PendingBefore int                `json:"pending_before"`
	Metrics       model.ChunkMetrics `json:"metrics"`
}

// Done reports whether the caller should stop invoking further chunks:
// either nothing was processed or this chunk drained the pending set it
// observed.
func (r *ChunkReport) Done() bool {
	return r.Processed == 0 || r.Processed >= r.PendingBefore
}

// RunChunk executes one chunk: settings snapshot, pending selection, chunk
// planning, concurrent classification, result writes, metrics, and the
// run-log append. Errors returned here are chunk-level (store or config
// unreachable, caller cancellation); row-level failures are absorbed into
// fallback results and never surface as an error.
func (e *Evaluator) RunChunk(ctx context.Context, req ChunkRequest) (*ChunkReport, error) {
	invocationID := uuid.New().String()
	log := e.Log.With("invocation", invocationID, "tab", req.Tab, "mode", string(req.Mode))

	raw, err := e.Store.ReadSettings(ctx)
	if err != nil {
		metrics.ChunkFailures.WithLabelValues(string(req.Mode)).Inc()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings := config.ParseSettings(raw, e.DefaultModel)

	rows, err := e.Store.ReadRows(ctx, req.Tab)
	if err != nil {
		metrics.ChunkFailures.WithLabelValues(string(req.Mode)).Inc()
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	pending := SelectPending(rows)
	chunk := batch.PlanChunk(pending, req.Limit, settings.BatchSize)
	log.Info("chunk planned", "pending", len(pending), "chunk", len(chunk), "model", settings.Model)

	start := time.Now()

	var results []model.ClassificationResult
	if len(chunk) > 0 {
		retry := classify.NewRetryPolicy(settings.MaxRetries, settings.RateLimitDelay)
		classifier := classify.NewClassifier(e.LLM, settings.Model, settings.PromptTemplate, retry)
		dispatcher := batch.NewDispatcher(classifier, log)

		results, err = dispatcher.Run(ctx, chunk, req.Parallel)
		if err != nil {
			// A cancelled caller aborts the whole chunk before anything
			// is written, so the rows stay pending for the next run.
			metrics.ChunkFailures.WithLabelValues(string(req.Mode)).Inc()
			return nil, fmt.Errorf("chunk aborted: %w", err)
		}

		if err := e.Store.WriteResults(ctx, req.Tab, results); err != nil {
			metrics.ChunkFailures.WithLabelValues(string(req.Mode)).Inc()
			return nil, fmt.Errorf("failed to write results: %w", err)
		}
	}

	elapsed := time.Since(start)
	m := stats.Compute(results, elapsed)

	for _, r := range results {
		metrics.RowsClassified.WithLabelValues(string(req.Mode), string(r.Verdict)).Inc()
	}
	metrics.ChunkDuration.WithLabelValues(string(req.Mode)).Observe(elapsed.Seconds())

	recorder := runlog.NewRecorder(e.Store)
	entry := runlog.NewEntry(time.Now(), e.Store.ID(), req.Tab, req.Mode, settings.Model, m)
	if err := recorder.Record(ctx, entry); err != nil {
		metrics.ChunkFailures.WithLabelValues(string(req.Mode)).Inc()
		return nil, err
	}

	log.Info("chunk finished",
		"processed", len(results),
		"same", m.Same, "different", m.Different, "unsure", m.Unsure,
		"duration_ms", m.DurationMS)

	return &ChunkReport{
		InvocationID:  invocationID,
		Model:         settings.Model,
		Processed:     len(results),
		PendingBefore: len(pending),
		Metrics:       m,
	}, nil
}

// LogicalRuns reads the accumulated run log for a mode and reconstructs
// logical runs with the default gap.
func (e *Evaluator) LogicalRuns(ctx context.Context, mode model.Mode) ([]model.LogicalRun, error) {
	entries, err := e.Store.ReadRunLog(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to read run log: %w", err)
	}
	return runlog.Reconstruct(entries, runlog.DefaultGap), nil
}
