package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/store"
)

func TestSelectPendingFiltersResultBearingRows(t *testing.T) {
	rows := []store.RecordRow{
		{Record: model.PendingRecord{Row: 2}},
		{Record: model.PendingRecord{Row: 3}, Score: "1", Verdict: "SAME"},
		{Record: model.PendingRecord{Row: 4}},
	}

	pending := SelectPending(rows)
	require.Len(t, pending, 2)
	assert.Equal(t, 2, pending[0].Row)
	assert.Equal(t, 4, pending[1].Row)
}

func TestSelectPendingExcludesPartialRows(t *testing.T) {
	// One result cell populated is still "not pending": a partially written
	// row must never be re-evaluated.
	rows := []store.RecordRow{
		{Record: model.PendingRecord{Row: 2}, Score: "1"},
		{Record: model.PendingRecord{Row: 3}, Verdict: "SAME"},
	}
	assert.Empty(t, SelectPending(rows))
}

func TestSelectPendingTreatsWhitespaceAsEmpty(t *testing.T) {
	rows := []store.RecordRow{
		{Record: model.PendingRecord{Row: 2}, Score: "  ", Verdict: " "},
	}
	assert.Len(t, SelectPending(rows), 1)
}

func TestSelectPendingEmptyInput(t *testing.T) {
	assert.Empty(t, SelectPending(nil))
}
