package batch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pairlens/pairlens/internal/core/classify"
	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/metrics"
)

// RecordClassifier is the per-record evaluation the dispatcher drains a
// chunk through.
type RecordClassifier interface {
	Classify(ctx context.Context, rec model.PendingRecord) (model.ClassificationResult, error)
}

// Dispatcher runs a chunk through a fixed-size worker pool. Workers claim
// records by atomic index increment, so no record is processed twice and
// none is skipped. A row that fails terminally gets a synthetic UNSURE
// fallback; one bad row never aborts its siblings.
type Dispatcher struct {
	classifier RecordClassifier
	log        *slog.Logger
}

func NewDispatcher(classifier RecordClassifier, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{classifier: classifier, log: log}
}

// Run processes records with min(parallel, len(records)) workers and returns
// exactly one result per input record, paired by input position. Completion
// order is unspecified.
//
// If ctx is cancelled, workers stop claiming records and Run returns the
// context error with no results: a cancelled caller must not retire pending
// rows with synthetic fallbacks.
func (d *Dispatcher) Run(ctx context.Context, records []model.PendingRecord, parallel int) ([]model.ClassificationResult, error) {
	n := len(records)
	if n == 0 {
		return nil, nil
	}
	if parallel < 1 {
		parallel = 1
	}
	if parallel > n {
		parallel = n
	}

	results := make([]model.ClassificationResult, n)
	var next atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < parallel; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				rec := records[i]
				res, err := d.classifier.Classify(ctx, rec)
				if err != nil {
					// Cancellation is not a row failure: leave the
					// record pending instead of minting a fallback.
					if ctx.Err() != nil {
						return
					}
					d.log.Warn("row failed, recording fallback", "row", rec.Row, "error", err)
					metrics.RowFallbacks.Inc()
					res = classify.FallbackResult(rec, err)
				}
				results[i] = res
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
