package runlog

import (
	"sort"
	"time"

	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/core/stats"
)

// DefaultGap is the maximum timestamp gap between two consecutive entries of
// one logical run.
const DefaultGap = 5 * time.Minute

type sortedEntry struct {
	entry  model.RunLogEntry
	at     time.Time
	parsed bool
}

// Reconstruct partitions run-log entries into logical runs. Entries are
// sorted by timestamp ascending (stable, so ties keep input order), then
// walked: an entry joins the open group iff its grouping key matches and its
// timestamp is within gap of the group's most recent timestamp. An entry
// whose timestamp does not parse can never merge and always forms its own
// group. The partition is total: every entry lands in exactly one run.
func Reconstruct(entries []model.RunLogEntry, gap time.Duration) []model.LogicalRun {
	if len(entries) == 0 {
		return nil
	}
	if gap <= 0 {
		gap = DefaultGap
	}

	sorted := make([]sortedEntry, len(entries))
	for i, e := range entries {
		at, err := time.Parse(time.RFC3339, e.Timestamp)
		sorted[i] = sortedEntry{entry: e, at: at, parsed: err == nil}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.Before(sorted[j].at)
	})

	var runs []model.LogicalRun
	var open []sortedEntry

	for _, se := range sorted {
		if len(open) > 0 && mergeable(open[len(open)-1], se, gap) {
			open = append(open, se)
			continue
		}
		if len(open) > 0 {
			runs = append(runs, finalize(open))
		}
		open = []sortedEntry{se}
	}
	runs = append(runs, finalize(open))

	return runs
}

func mergeable(prev, next sortedEntry, gap time.Duration) bool {
	if !prev.parsed || !next.parsed {
		return false
	}
	if prev.entry.Key() != next.entry.Key() {
		return false
	}
	return next.at.Sub(prev.at) <= gap
}

func finalize(group []sortedEntry) model.LogicalRun {
	first := group[0].entry
	last := group[len(group)-1].entry

	chunkMetrics := make([]model.ChunkMetrics, len(group))
	rows := 0
	for i, se := range group {
		chunkMetrics[i] = se.entry.Metrics
		rows += se.entry.Rows
	}

	return model.LogicalRun{
		StartedAt:     first.Timestamp,
		EndedAt:       last.Timestamp,
		SpreadsheetID: first.SpreadsheetID,
		Tab:           first.Tab,
		Mode:          first.Mode,
		Model:         first.Model,
		Chunks:        len(group),
		Rows:          rows,
		Metrics:       stats.Recombine(chunkMetrics),
	}
}
