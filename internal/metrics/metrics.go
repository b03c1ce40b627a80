package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsClassified counts classified rows per mode and verdict.
	RowsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairlens_rows_classified_total",
			Help: "Total number of rows classified",
		},
		[]string{"mode", "verdict"},
	)

	// RowFallbacks counts rows that ended in a synthetic UNSURE fallback.
	RowFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pairlens_row_fallbacks_total",
			Help: "Total number of rows that failed terminally and received a fallback result",
		},
	)

	// ChunkDuration tracks wall-clock chunk latency per mode.
	ChunkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pairlens_chunk_duration_seconds",
			Help:    "Wall-clock duration of one chunk invocation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// ChunkFailures counts whole-invocation failures per mode.
	ChunkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pairlens_chunk_failures_total",
			Help: "Total number of chunk invocations that failed before completing",
		},
		[]string{"mode"},
	)
)
