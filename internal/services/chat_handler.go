package services

import (
	"context"
	"fmt"
	"strings"

	"portfolio_go_backend/internal/llm"
	"portfolio_go_backend/internal/models"
)

// ChatHandler is the per-turn decision engine. It holds no mutable state
// across turns: the conversation and counter are passed in and handed back,
// persistence belongs to the caller. The three providers are injected so the
// policy is testable with fakes.
type ChatHandler struct {
	embedder  Embedder
	searcher  ContextSearcher
	generator Generator
	topK      int
	threshold float64
}

func NewChatHandler(embedder Embedder, searcher ContextSearcher, generator Generator, topK int, threshold float64) *ChatHandler {
	return &ChatHandler{
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		topK:      topK,
		threshold: threshold,
	}
}

// TurnResult is the orchestrator's decision for one turn.
type TurnResult struct {
	// AIMessage is the text to show the user, always well-formed.
	AIMessage string
	// SystemMessage is the retrieval-grounding prompt appended to the
	// transcript. Empty when the turn ended on a policy limit.
	SystemMessage string
	// OffTopicResponseCount is the counter after this turn.
	OffTopicResponseCount int
}

// HandleChat runs one turn. conversation is the prior transcript in order
// (human and ai messages only); humanMessage is the new inbound message.
//
// When the conversation is over the length limit, or the off-topic counter
// has reached its cap, a fixed terminal message is returned without touching
// any provider. Otherwise the human message is embedded, the corpus searched,
// and the full transcript plus a freshly built system prompt is sent for
// generation. A completion containing the refusal sentinel increments the
// counter and is replaced with the off-topic warning.
//
// Provider failures are returned as-is; nothing is retried here.
func (h *ChatHandler) HandleChat(
	ctx context.Context,
	conversation []models.Message,
	humanMessage models.Message,
	offTopicResponseCount int,
) (TurnResult, error) {
	if len(conversation) > MessagesLimit {
		return TurnResult{
			AIMessage:             LimitLengthMessage,
			OffTopicResponseCount: offTopicResponseCount,
		}, nil
	}

	if offTopicResponseCount >= OffTopicCountLimit {
		return TurnResult{
			AIMessage:             LimitOffTopicMessage,
			OffTopicResponseCount: offTopicResponseCount,
		}, nil
	}

	embedding, err := h.embedder.Embed(ctx, humanMessage.MessageText)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to embed query: %w", err)
	}

	contextText, err := h.searcher.Search(ctx, embedding, h.topK, h.threshold)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to search context: %w", err)
	}

	systemMessage := ContextPrompt(contextText)
	transcript, err := buildTranscript(conversation, humanMessage, systemMessage)
	if err != nil {
		return TurnResult{}, err
	}

	aiMessage, err := h.generator.Generate(ctx, transcript)
	if err != nil {
		return TurnResult{}, fmt.Errorf("failed to generate response: %w", err)
	}

	if strings.Contains(strings.ToLower(aiMessage), strings.ToLower(RefusalSentinel)) {
		offTopicResponseCount++
		aiMessage = OffTopicWarning(offTopicResponseCount)
	}

	return TurnResult{
		AIMessage:             aiMessage,
		SystemMessage:         systemMessage,
		OffTopicResponseCount: offTopicResponseCount,
	}, nil
}

// buildTranscript formats the prior conversation and the new human message by
// role, then appends the retrieval-grounding system prompt last.
func buildTranscript(conversation []models.Message, humanMessage models.Message, systemMessage string) ([]llm.Message, error) {
	transcript := make([]llm.Message, 0, len(conversation)+2)
	for _, message := range conversation {
		formatted, err := FormatMessage(message)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, formatted)
	}

	formatted, err := FormatMessage(humanMessage)
	if err != nil {
		return nil, err
	}
	transcript = append(transcript, formatted)

	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: systemMessage})
	return transcript, nil
}
