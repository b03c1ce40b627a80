package classify

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ErrEmptyOutput marks a backend call that returned a blank completion.
// Empty output is treated as transient and retried.
var ErrEmptyOutput = errors.New("classifier returned empty output")

// MaxRetryCeiling caps the configured retry budget.
const MaxRetryCeiling = 3

// transport failure signatures that do not surface as typed errors.
var transientSignatures = []string{
	"timeout",
	"timed out",
	"connection reset",
	"connection refused",
	"unexpected eof",
	"broken pipe",
}

// RetryPolicy retries a single classification attempt with linear, jittered
// backoff. Only transient conditions are retried; everything else returns to
// the caller immediately.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration

	// sleep is swapped in tests.
	sleep func(context.Context, time.Duration) error
}

// NewRetryPolicy clamps maxRetries to [0, MaxRetryCeiling].
func NewRetryPolicy(maxRetries int, baseDelay time.Duration) *RetryPolicy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxRetries > MaxRetryCeiling {
		maxRetries = MaxRetryCeiling
	}
	return &RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		sleep:      sleepCtx,
	}
}

// Do runs fn up to MaxRetries+1 times. The wait before retry k is
// BaseDelay * k * jitter, jitter uniform in [0.85, 1.15]. On budget
// exhaustion the last error is returned.
func (p *RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	var last error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			jitter := 0.85 + rand.Float64()*0.3
			delay := time.Duration(float64(p.BaseDelay) * float64(attempt) * jitter)
			if err := p.sleep(ctx, delay); err != nil {
				return err
			}
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}
		if !Retryable(last) {
			return last
		}
	}
	return last
}

// Retryable reports whether err is a transient condition worth another
// attempt: rate limiting, a 5xx-class status, empty output, or a known
// transport-timeout signature. Well-formed request rejections (4xx other
// than 429) are not retried.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrEmptyOutput) {
		return true
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return retryableStatus(openaiErr.HTTPStatusCode)
	}

	var anthropicReqErr *anthropic.RequestError
	if errors.As(err, &anthropicReqErr) {
		return retryableStatus(anthropicReqErr.StatusCode)
	}
	var anthropicAPIErr *anthropic.APIError
	if errors.As(err, &anthropicAPIErr) {
		switch anthropicAPIErr.Type {
		case anthropic.ErrTypeRateLimit, anthropic.ErrTypeOverloaded, anthropic.ErrTypeApi:
			return true
		}
		return false
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return retryableStatus(gErr.Code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
