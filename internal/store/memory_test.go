package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairlens/pairlens/internal/core/model"
)

func TestSampleRowsArePending(t *testing.T) {
	rows := SampleRows(7)
	require.Len(t, rows, 7)

	seen := make(map[int]bool)
	for _, r := range rows {
		assert.Empty(t, r.Score)
		assert.Empty(t, r.Verdict)
		assert.Empty(t, r.Notes)
		assert.NotEmpty(t, r.Record.Left.Name)
		assert.NotEmpty(t, r.Record.Right.Name)
		require.NotNil(t, r.Record.Proximity)
		assert.False(t, seen[r.Record.Row], "row %d assigned twice", r.Record.Row)
		seen[r.Record.Row] = true
	}
}

func TestMemoryStoreSeededWithSamplesRetiresRows(t *testing.T) {
	st := NewMemoryStore("dry-run")
	st.SeedRows("Dataset", SampleRows(3))
	ctx := context.Background()

	rows, err := st.ReadRows(ctx, "Dataset")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	conf := 0.9
	err = st.WriteResults(ctx, "Dataset", []model.ClassificationResult{{
		Row:        rows[0].Record.Row,
		Verdict:    model.VerdictSame,
		MatchScore: 1,
		Notes:      "confidence=0.90; same storefront",
		Confidence: &conf,
	}})
	require.NoError(t, err)

	rows, err = st.ReadRows(ctx, "Dataset")
	require.NoError(t, err)
	assert.Equal(t, "1", rows[0].Score)
	assert.Equal(t, "SAME", rows[0].Verdict)
	assert.Empty(t, rows[1].Score)
	assert.Empty(t, rows[2].Score)
}
