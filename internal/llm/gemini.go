package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is the alternate generation provider. System-role messages are
// folded into the model's system instruction since the Gemini chat API only
// carries user and model turns.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, messages []Message) (string, error) {
	model := c.client.GenerativeModel(c.model)

	var instruction strings.Builder
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if instruction.Len() > 0 {
				instruction.WriteString("\n\n")
			}
			instruction.WriteString(m.Content)
		case RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(m.Content)},
			})
		default:
			return "", fmt.Errorf("unexpected message role: %q", m.Role)
		}
	}

	if len(contents) == 0 {
		return "", fmt.Errorf("conversation has no user or assistant messages")
	}
	if instruction.Len() > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(instruction.String())},
		}
	}

	session := model.StartChat()
	session.History = contents[:len(contents)-1]
	last := contents[len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("completion returned no candidates")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected completion part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}
