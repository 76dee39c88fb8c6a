package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// TextData is one chunk of the grounding corpus together with its embedding.
type TextData struct {
	TextID    string          `gorm:"primaryKey" json:"text_id"`
	Filename  string          `json:"filename"`
	Text      string          `gorm:"type:text" json:"text"`
	Source    string          `json:"source"`
	Topic     string          `json:"topic"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

func (TextData) TableName() string {
	return "text_data"
}
