package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/pairlens/pairlens/internal/core/model"
	"github.com/pairlens/pairlens/internal/llm"
)

// Classifier evaluates one record pair per call: it builds the request,
// drives the backend through the retry policy, and runs the parse chain over
// the response. Parse failures are returned as errors but are never retried;
// the dispatcher converts them to fallback results.
type Classifier struct {
	client       llm.Client
	modelName    string
	instructions string
	retry        *RetryPolicy
}

func NewClassifier(client llm.Client, modelName, instructions string, retry *RetryPolicy) *Classifier {
	return &Classifier{
		client:       client,
		modelName:    modelName,
		instructions: instructions,
		retry:        retry,
	}
}

// Classify returns the classification result for rec. The returned error is
// row-level: retry budget exhausted, an unretryable backend error, or an
// irrecoverable response.
func (c *Classifier) Classify(ctx context.Context, rec model.PendingRecord) (model.ClassificationResult, error) {
	prompt := BuildPrompt(c.instructions, rec)

	var raw string
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		out, err := c.client.Generate(ctx, c.modelName, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(out) == "" {
			return ErrEmptyOutput
		}
		raw = out
		return nil
	})
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("classification call failed for row %d: %w", rec.Row, err)
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("row %d: %w", rec.Row, err)
	}

	return model.ClassificationResult{
		Row:        rec.Row,
		Verdict:    parsed.Verdict,
		MatchScore: parsed.MatchScore,
		Notes:      parsed.Notes,
		Confidence: ExtractConfidence(parsed.Notes),
		Source:     parsed.Source,
	}, nil
}

// FallbackResult is the synthetic result recorded when a row's classification
// fails terminally. The chunk keeps going; the failure is only visible as an
// UNSURE verdict with a diagnostic note at mid-range confidence.
func FallbackResult(rec model.PendingRecord, cause error) model.ClassificationResult {
	notes := fmt.Sprintf("confidence=0.50; classification failed: %v", cause)
	return model.ClassificationResult{
		Row:        rec.Row,
		Verdict:    model.VerdictUnsure,
		MatchScore: model.ScoreFor(model.VerdictUnsure),
		Notes:      notes,
		Confidence: ExtractConfidence(notes),
		Source:     model.ParseFallback,
	}
}
