package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSettingsDefaults(t *testing.T) {
	s := ParseSettings(map[string]string{}, "gpt-4o-mini")

	assert.Equal(t, "gpt-4o-mini", s.Model)
	assert.Equal(t, "", s.PromptTemplate)
	assert.Equal(t, DefaultBatchSize, s.BatchSize)
	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, s.RateLimitDelay)
}

func TestParseSettingsOverrides(t *testing.T) {
	s := ParseSettings(map[string]string{
		"MODEL":               "gemini-2.0-flash",
		"PROMPT_TEMPLATE":     "Compare these records carefully.",
		"BATCH_SIZE":          "25",
		"MAX_RETRIES":         "2",
		"RATE_LIMIT_DELAY_MS": "1000",
	}, "gpt-4o-mini")

	assert.Equal(t, "gemini-2.0-flash", s.Model)
	assert.Equal(t, "Compare these records carefully.", s.PromptTemplate)
	assert.Equal(t, 25, s.BatchSize)
	assert.Equal(t, 2, s.MaxRetries)
	assert.Equal(t, time.Second, s.RateLimitDelay)
}

func TestParseSettingsClamps(t *testing.T) {
	s := ParseSettings(map[string]string{
		"MAX_RETRIES":         "10",
		"RATE_LIMIT_DELAY_MS": "60000",
	}, "m")
	assert.Equal(t, 3, s.MaxRetries)
	assert.Equal(t, 5*time.Second, s.RateLimitDelay)

	s = ParseSettings(map[string]string{
		"MAX_RETRIES":         "-1",
		"RATE_LIMIT_DELAY_MS": "-100",
	}, "m")
	assert.Equal(t, 0, s.MaxRetries)
	assert.Equal(t, time.Duration(0), s.RateLimitDelay)
}

func TestParseSettingsInvalidValuesFallBack(t *testing.T) {
	s := ParseSettings(map[string]string{
		"BATCH_SIZE":  "not-a-number",
		"MAX_RETRIES": "NaN",
	}, "m")
	assert.Equal(t, DefaultBatchSize, s.BatchSize)
	assert.Equal(t, DefaultMaxRetries, s.MaxRetries)
}

func TestParseSettingsRejectsNonPositiveBatchSize(t *testing.T) {
	s := ParseSettings(map[string]string{"BATCH_SIZE": "0"}, "m")
	assert.Equal(t, DefaultBatchSize, s.BatchSize)

	s = ParseSettings(map[string]string{"BATCH_SIZE": "-5"}, "m")
	assert.Equal(t, DefaultBatchSize, s.BatchSize)
}

func TestParseSettingsRejectsNonFiniteValues(t *testing.T) {
	// strconv.ParseFloat happily parses these, but converting them to
	// int is platform-dependent, so they must fall back to the defaults.
	for _, v := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity"} {
		s := ParseSettings(map[string]string{
			"BATCH_SIZE":          v,
			"MAX_RETRIES":         v,
			"RATE_LIMIT_DELAY_MS": v,
		}, "m")
		assert.Equal(t, DefaultBatchSize, s.BatchSize, v)
		assert.Equal(t, DefaultMaxRetries, s.MaxRetries, v)
		assert.Equal(t, time.Duration(DefaultRateLimitDelayMS)*time.Millisecond, s.RateLimitDelay, v)
	}
}

func TestParseSettingsAcceptsSheetFloats(t *testing.T) {
	// Sheets cells sometimes arrive as "50.0".
	s := ParseSettings(map[string]string{"BATCH_SIZE": "50.0"}, "m")
	assert.Equal(t, 50, s.BatchSize)
}
