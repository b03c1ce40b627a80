package config

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Settings is the flat key→value runtime configuration snapshot, read from
// the spreadsheet settings tab once per chunk invocation. Unknown keys are
// ignored; missing or invalid values fall back to defaults with the clamps
// below.
type Settings struct {
	Model          string
	PromptTemplate string
	BatchSize      int
	MaxRetries     int
	RateLimitDelay time.Duration
}

const (
	DefaultBatchSize        = 50
	DefaultMaxRetries       = 1
	DefaultRateLimitDelayMS = 250

	maxRetriesCeiling       = 3
	rateLimitDelayCeilingMS = 5000
)

// ParseSettings resolves a raw key→string map against defaults.
// defaultModel is the service-config model, used when the sheet carries no
// MODEL key.
func ParseSettings(raw map[string]string, defaultModel string) Settings {
	s := Settings{
		Model:          defaultModel,
		BatchSize:      DefaultBatchSize,
		MaxRetries:     DefaultMaxRetries,
		RateLimitDelay: DefaultRateLimitDelayMS * time.Millisecond,
	}

	if v := strings.TrimSpace(raw["MODEL"]); v != "" {
		s.Model = v
	}
	if v := raw["PROMPT_TEMPLATE"]; strings.TrimSpace(v) != "" {
		s.PromptTemplate = v
	}

	if n, ok := parseInt(raw["BATCH_SIZE"]); ok && n > 0 {
		s.BatchSize = n
	}

	if n, ok := parseInt(raw["MAX_RETRIES"]); ok {
		s.MaxRetries = clamp(n, 0, maxRetriesCeiling)
	}

	if n, ok := parseInt(raw["RATE_LIMIT_DELAY_MS"]); ok {
		s.RateLimitDelay = time.Duration(clamp(n, 0, rateLimitDelayCeilingMS)) * time.Millisecond
	}

	return s
}

func parseInt(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Sheets cells sometimes hold "50.0". ParseFloat also accepts
		// "NaN" and "Inf", and int(f) is undefined for those, so
		// non-finite values fall back to the default.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		n = int(f)
	}
	return n, true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
