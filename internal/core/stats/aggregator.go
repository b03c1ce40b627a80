// Package stats computes per-chunk metrics and recombines them across
// chunks. Confidence averages are null-safe throughout: a bucket with no
// confidence-bearing records has no average, never a zero.
package stats

import (
	"time"

	"github.com/pairlens/pairlens/internal/core/model"
)

// Compute aggregates one chunk's results. For each verdict bucket the
// average runs over only the records whose confidence parsed; records with
// nil confidence never enter the denominator.
func Compute(results []model.ClassificationResult, elapsed time.Duration) model.ChunkMetrics {
	m := model.ChunkMetrics{DurationMS: elapsed.Milliseconds()}

	var sums, counts [3]float64
	for _, r := range results {
		idx := bucketIndex(r.Verdict)
		switch r.Verdict {
		case model.VerdictSame:
			m.Same++
		case model.VerdictDifferent:
			m.Different++
		default:
			m.Unsure++
		}
		if r.Confidence != nil {
			sums[idx] += *r.Confidence
			counts[idx]++
		}
	}

	m.AvgConfidenceSame = avg(sums[0], counts[0])
	m.AvgConfidenceDifferent = avg(sums[1], counts[1])
	m.AvgConfidenceUnsure = avg(sums[2], counts[2])
	return m
}

// Recombine merges chunk metrics into one aggregate. Counts and duration
// sum directly; each bucket's averages recombine weighted by that chunk's
// bucket count, skipping chunks whose bucket average is nil. A combined
// denominator of zero yields a nil average.
func Recombine(chunks []model.ChunkMetrics) model.ChunkMetrics {
	var out model.ChunkMetrics
	var sums, counts [3]float64

	for _, c := range chunks {
		out.Same += c.Same
		out.Different += c.Different
		out.Unsure += c.Unsure
		out.DurationMS += c.DurationMS

		accumulate(&sums[0], &counts[0], c.AvgConfidenceSame, c.Same)
		accumulate(&sums[1], &counts[1], c.AvgConfidenceDifferent, c.Different)
		accumulate(&sums[2], &counts[2], c.AvgConfidenceUnsure, c.Unsure)
	}

	out.AvgConfidenceSame = avg(sums[0], counts[0])
	out.AvgConfidenceDifferent = avg(sums[1], counts[1])
	out.AvgConfidenceUnsure = avg(sums[2], counts[2])
	return out
}

func accumulate(sum, count *float64, bucketAvg *float64, n int) {
	if bucketAvg == nil || n <= 0 {
		return
	}
	*sum += *bucketAvg * float64(n)
	*count += float64(n)
}

func avg(sum, count float64) *float64 {
	if count == 0 {
		return nil
	}
	v := sum / count
	return &v
}

func bucketIndex(v model.Verdict) int {
	switch v {
	case model.VerdictSame:
		return 0
	case model.VerdictDifferent:
		return 1
	default:
		return 2
	}
}
