package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairlens/pairlens/internal/core/model"
)

func result(v model.Verdict, conf *float64) model.ClassificationResult {
	return model.ClassificationResult{
		Verdict:    v,
		MatchScore: model.ScoreFor(v),
		Confidence: conf,
	}
}

func f(v float64) *float64 {
	return &v
}

func TestComputeCountsAndAverages(t *testing.T) {
	results := []model.ClassificationResult{
		result(model.VerdictSame, f(0.9)),
		result(model.VerdictSame, f(0.7)),
		result(model.VerdictSame, nil), // no confidence: counted, not averaged
		result(model.VerdictDifferent, f(0.6)),
		result(model.VerdictUnsure, nil),
	}

	m := Compute(results, 1500*time.Millisecond)

	assert.Equal(t, 3, m.Same)
	assert.Equal(t, 1, m.Different)
	assert.Equal(t, 1, m.Unsure)
	assert.Equal(t, 5, m.Rows())
	assert.Equal(t, int64(1500), m.DurationMS)

	require.NotNil(t, m.AvgConfidenceSame)
	assert.InDelta(t, 0.8, *m.AvgConfidenceSame, 1e-9)
	require.NotNil(t, m.AvgConfidenceDifferent)
	assert.InDelta(t, 0.6, *m.AvgConfidenceDifferent, 1e-9)
	assert.Nil(t, m.AvgConfidenceUnsure, "bucket without parsed confidence must average to nil, not 0")
}

func TestComputeEmptyInput(t *testing.T) {
	m := Compute(nil, 0)
	assert.Equal(t, 0, m.Rows())
	assert.Nil(t, m.AvgConfidenceSame)
	assert.Nil(t, m.AvgConfidenceDifferent)
	assert.Nil(t, m.AvgConfidenceUnsure)
}

func TestRecombineWeightedAverages(t *testing.T) {
	chunks := []model.ChunkMetrics{
		{Same: 2, AvgConfidenceSame: f(0.9), DurationMS: 1000},
		{Same: 3, AvgConfidenceSame: f(0.7), DurationMS: 2000},
	}

	m := Recombine(chunks)

	assert.Equal(t, 5, m.Same)
	assert.Equal(t, int64(3000), m.DurationMS)
	require.NotNil(t, m.AvgConfidenceSame)
	assert.InDelta(t, 0.78, *m.AvgConfidenceSame, 1e-9)
}

func TestRecombineSkipsNilAverages(t *testing.T) {
	chunks := []model.ChunkMetrics{
		{Unsure: 4, AvgConfidenceUnsure: nil},
		{Unsure: 2, AvgConfidenceUnsure: f(0.5)},
	}

	m := Recombine(chunks)

	assert.Equal(t, 6, m.Unsure)
	require.NotNil(t, m.AvgConfidenceUnsure)
	assert.InDelta(t, 0.5, *m.AvgConfidenceUnsure, 1e-9)
}

func TestRecombineAllNilYieldsNil(t *testing.T) {
	chunks := []model.ChunkMetrics{
		{Different: 3},
		{Different: 1},
	}

	m := Recombine(chunks)
	assert.Equal(t, 4, m.Different)
	assert.Nil(t, m.AvgConfidenceDifferent)
}
