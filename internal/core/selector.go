package core

import (
	"strings"

	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/store"
)

// SelectPending filters dataset rows to records not yet evaluated: both
// result cells (score, verdict) must be empty. A row with only one of the
// two populated is conservatively excluded, so a partially written row is
// never re-evaluated. No side effects.
func SelectPending(rows []store.RecordRow) []model.PendingRecord {
	var pending []model.PendingRecord
	for _, r := range rows {
		if strings.TrimSpace(r.Score) != "" || strings.TrimSpace(r.Verdict) != "" {
			continue
		}
		pending = append(pending, r.Record)
	}
	return pending
}
