package llm

import (
	"context"
)

// Client is the text-generation surface the pipeline classifies through.
// The model identifier comes from the per-invocation settings snapshot, so
// it is passed per call rather than baked into the client.
type Client interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}
