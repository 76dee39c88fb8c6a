package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient calls the OpenAI API for both embeddings and chat completions.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
}

func NewOpenAIClient(apiKey, chatModel, embeddingModel string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:         &client,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}
}

// Embed returns the embedding vector for the given text. Newlines are
// replaced with spaces before the call; the embedding model treats them as
// noise.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.ReplaceAll(text, "\n", " ")

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Generate sends the full role-tagged transcript and returns the completion
// text verbatim.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		case RoleUser:
			params = append(params, openai.UserMessage(m.Content))
		default:
			return "", fmt.Errorf("unexpected message role: %q", m.Role)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: params,
		Model:    c.chatModel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
