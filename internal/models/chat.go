package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat is one visitor conversation. The off-topic counter only ever grows;
// once it reaches the policy limit the chat stops answering but the row is kept.
type Chat struct {
	ChatID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"chat_id"`
	OffTopicResponseCount int       `gorm:"not null;default:0" json:"off_topic_response_count"`
	CreatedAt             time.Time `json:"created_at"`
	Messages              []Message `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Chat) TableName() string {
	return "chats"
}
