package services

import (
	"context"

	"portfolio_go_backend/internal/llm"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ContextSearcher finds the nearest corpus texts to a query vector and
// returns them assembled into one context string, ascending by distance,
// entries at or beyond the threshold excluded.
type ContextSearcher interface {
	Search(ctx context.Context, embedding []float32, topK int, threshold float64) (string, error)
}

// Generator produces a single completion for an ordered transcript.
type Generator interface {
	Generate(ctx context.Context, messages []llm.Message) (string, error)
}
