package models

import (
	"time"

	"github.com/google/uuid"
)

// Message origin tags. This is a closed set: anything else in a message_by
// column means corrupted data and is rejected during formatting.
const (
	MessageByHuman  = "human"
	MessageByAI     = "ai"
	MessageBySystem = "system"
)

// Message is one turn's text in a chat. Rows are append-only: a message is
// never updated, and only cascade deletion of its chat removes it. The
// autoincrement ID preserves insertion order when created_at timestamps
// collide, so transcripts replay in the exact order they were written.
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	MessageID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"message_id"`
	ChatID      uuid.UUID `gorm:"type:uuid;index;not null" json:"chat_id"`
	MessageText string    `gorm:"type:text;not null" json:"message_text"`
	MessageBy   string    `gorm:"type:varchar(16);not null" json:"message_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
