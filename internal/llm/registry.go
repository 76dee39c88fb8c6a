package llm

import (
	"context"
	"fmt"
)

// Generator produces one completion for an ordered role-tagged transcript.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Registry holds the configured providers and resolves one by name.
type Registry struct {
	openAI *OpenAIClient
	gemini *GeminiClient
}

func NewRegistry(openAI *OpenAIClient, gemini *GeminiClient) *Registry {
	return &Registry{openAI: openAI, gemini: gemini}
}

func (r *Registry) Generator(provider string) (Generator, error) {
	switch provider {
	case "", "openai":
		return r.openAI, nil
	case "gemini":
		if r.gemini == nil {
			return nil, fmt.Errorf("gemini provider requested but not configured")
		}
		return r.gemini, nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %q", provider)
	}
}
