package services

import (
	"context"

	"portfolio_go_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TextDataStore defines persistence for the grounding corpus.
type TextDataStore interface {
	SaveTextData(ctx context.Context, textData *models.TextData) error
	GetAllTextData(ctx context.Context) ([]models.TextData, error)
}

type GormTextDataStore struct {
	db *gorm.DB
}

func NewTextDataStore(db *gorm.DB) TextDataStore {
	return &GormTextDataStore{db: db}
}

// SaveTextData inserts the corpus row, ignoring an existing text_id so
// re-ingesting the same corpus is a no-op.
func (s *GormTextDataStore) SaveTextData(ctx context.Context, textData *models.TextData) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "text_id"}},
			DoNothing: true,
		}).
		Create(textData).Error
}

func (s *GormTextDataStore) GetAllTextData(ctx context.Context) ([]models.TextData, error) {
	var rows []models.TextData
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
