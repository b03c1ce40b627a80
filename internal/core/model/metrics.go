package model

// ChunkMetrics aggregates one chunk's results: per-verdict counts and, per
// verdict bucket, the average confidence over only the records in that
// bucket whose confidence parsed. A bucket with no parsed confidences has a
// nil average, never 0.
type ChunkMetrics struct {
	Same      int `json:"same"`
	Different int `json:"different"`
	Unsure    int `json:"unsure"`

	AvgConfidenceSame      *float64 `json:"avg_confidence_same,omitempty"`
	AvgConfidenceDifferent *float64 `json:"avg_confidence_different,omitempty"`
	AvgConfidenceUnsure    *float64 `json:"avg_confidence_unsure,omitempty"`

	DurationMS int64 `json:"duration_ms"`
}

// Rows is the total number of records the metrics cover.
func (m ChunkMetrics) Rows() int {
	return m.Same + m.Different + m.Unsure
}
