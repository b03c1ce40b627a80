package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairlens/pairlens/internal/core/model"
)

func TestParseStrictResponse(t *testing.T) {
	raw := `{"verdict": "SAME", "match_score": 1, "notes": "confidence=0.92; matching names and addresses"}`

	p, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictSame, p.Verdict)
	assert.Equal(t, 1, p.MatchScore)
	assert.Equal(t, "confidence=0.92; matching names and addresses", p.Notes)
	assert.Equal(t, model.ParseStrict, p.Source)
}

func TestParseFencedResponse(t *testing.T) {
	raw := "```json\n{\"verdict\": \"DIFFERENT\", \"match_score\": 0, \"notes\": \"confidence=0.85; unrelated entities\"}\n```"

	p, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictDifferent, p.Verdict)
	assert.Equal(t, 0, p.MatchScore)
	assert.Equal(t, model.ParseStrict, p.Source)
}

func TestParseResponseWithSurroundingProse(t *testing.T) {
	raw := `Here is my assessment:
{"verdict": "UNSURE", "match_score": 2, "notes": "confidence=0.40; addresses conflict"}
Let me know if you need more detail.`

	p, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictUnsure, p.Verdict)
	assert.Equal(t, model.ParseStrict, p.Source)
}

func TestParseHeuristicFallback(t *testing.T) {
	// Broken JSON (trailing comma) but all three fields are recoverable.
	raw := `{"verdict": "SAME", "match_score": 1, "notes": "confidence=0.88; same place",}`

	p, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, model.VerdictSame, p.Verdict)
	assert.Equal(t, 1, p.MatchScore)
	assert.Equal(t, "confidence=0.88; same place", p.Notes)
	assert.Equal(t, model.ParseHeuristic, p.Source)
}

func TestParseFailsWhenFieldMissing(t *testing.T) {
	_, err := ParseResponse(`{"verdict": "SAME", "match_score": 1}`)
	assert.Error(t, err)
}

func TestParseFailsOnUnknownVerdict(t *testing.T) {
	_, err := ParseResponse(`{"verdict": "MAYBE", "match_score": 2, "notes": "confidence=0.50; hmm"}`)
	assert.Error(t, err)
}

func TestParseFailsOnInconsistentScore(t *testing.T) {
	// SAME must carry score 1; the fixed mapping is an invariant.
	_, err := ParseResponse(`{"verdict": "SAME", "match_score": 0, "notes": "confidence=0.90; same"}`)
	assert.Error(t, err)
}

func TestParseFailsOnGarbage(t *testing.T) {
	_, err := ParseResponse("I cannot answer that question.")
	assert.Error(t, err)
}

func TestExtractConfidence(t *testing.T) {
	cases := []struct {
		notes string
		want  *float64
	}{
		{"confidence=0.92; matching names", f(0.92)},
		{"confidence=1.0; exact duplicate", f(1.0)},
		{"confidence=0; no idea", f(0)},
		{"confidence = 0.5; spaced token", f(0.5)},
		{"no token here", nil},
		{"confidence=high; non-numeric", nil},
		{"", nil},
	}

	for _, tc := range cases {
		got := ExtractConfidence(tc.notes)
		if tc.want == nil {
			assert.Nil(t, got, "notes: %q", tc.notes)
		} else {
			require.NotNil(t, got, "notes: %q", tc.notes)
			assert.InDelta(t, *tc.want, *got, 1e-9)
		}
	}
}

func f(v float64) *float64 {
	return &v
}
