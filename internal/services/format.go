package services

import (
	"errors"
	"fmt"

	"portfolio_go_backend/internal/llm"
	"portfolio_go_backend/internal/models"
)

// ErrUnknownMessageBy marks a message_by value outside the closed
// human/ai/system set. It should never occur for data written by this
// system; seeing it means the stored transcript is corrupted.
var ErrUnknownMessageBy = errors.New("unknown message_by value")

// FormatMessage maps a stored message to its provider role representation.
func FormatMessage(message models.Message) (llm.Message, error) {
	switch message.MessageBy {
	case models.MessageByHuman:
		return llm.Message{Role: llm.RoleUser, Content: message.MessageText}, nil
	case models.MessageByAI:
		return llm.Message{Role: llm.RoleAssistant, Content: message.MessageText}, nil
	case models.MessageBySystem:
		return llm.Message{Role: llm.RoleSystem, Content: message.MessageText}, nil
	default:
		return llm.Message{}, fmt.Errorf("%w: %q", ErrUnknownMessageBy, message.MessageBy)
	}
}

// ParseOrigin is the inverse mapping, provider role back to origin tag.
func ParseOrigin(role string) (string, error) {
	switch role {
	case llm.RoleUser:
		return models.MessageByHuman, nil
	case llm.RoleAssistant:
		return models.MessageByAI, nil
	case llm.RoleSystem:
		return models.MessageBySystem, nil
	default:
		return "", fmt.Errorf("%w: role %q", ErrUnknownMessageBy, role)
	}
}
