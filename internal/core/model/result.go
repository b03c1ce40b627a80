package model

// Verdict is the classification outcome for one record pair.
type Verdict string

const (
	VerdictSame      Verdict = "SAME"
	VerdictDifferent Verdict = "DIFFERENT"
	VerdictUnsure    Verdict = "UNSURE"
)

// ScoreFor returns the fixed verdict→score mapping. The mapping is an
// invariant of the stored data, never derived per call.
func ScoreFor(v Verdict) int {
	switch v {
	case VerdictSame:
		return 1
	case VerdictDifferent:
		return 0
	default:
		return 2
	}
}

// ValidVerdict reports whether s is one of the three allowed verdicts.
func ValidVerdict(s string) bool {
	switch Verdict(s) {
	case VerdictSame, VerdictDifferent, VerdictUnsure:
		return true
	}
	return false
}

// ParseSource tags which branch of the parse chain produced a result.
type ParseSource string

const (
	ParseStrict    ParseSource = "strict"
	ParseHeuristic ParseSource = "heuristic"
	ParseFallback  ParseSource = "fallback"
)

// ClassificationResult is the outcome for one record. Confidence is parsed
// out of Notes after the fact and is nil when the notes carry no usable
// confidence token.
type ClassificationResult struct {
	Row        int         `json:"row"`
	Verdict    Verdict     `json:"verdict"`
	MatchScore int         `json:"match_score"`
	Notes      string      `json:"notes"`
	Confidence *float64    `json:"confidence,omitempty"`
	Source     ParseSource `json:"source"`
}
