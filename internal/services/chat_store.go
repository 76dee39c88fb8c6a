package services

import (
	"context"

	"portfolio_go_backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChatStore defines the persistence operations for chats and messages.
type ChatStore interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChat(ctx context.Context, chatID uuid.UUID) (*models.Chat, error)
	SaveMessages(ctx context.Context, messages []models.Message) error
	GetMessage(ctx context.Context, messageID uuid.UUID) (*models.Message, error)
	GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
	GetConversation(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)
	UpdateOffTopicCount(ctx context.Context, chatID uuid.UUID, count int) error
}

// GormChatStore implements ChatStore on GORM.
type GormChatStore struct {
	db *gorm.DB
}

func NewChatStore(db *gorm.DB) ChatStore {
	return &GormChatStore{db: db}
}

// CreateChat inserts the chat, leaving an existing row untouched so repeated
// creation requests are no-ops.
func (s *GormChatStore) CreateChat(ctx context.Context, chat *models.Chat) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoNothing: true,
		}).
		Create(chat).Error
}

func (s *GormChatStore) GetChat(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// SaveMessages appends messages idempotently: a duplicate message_id leaves
// the stored row unchanged, so a retried turn does not duplicate transcript
// entries.
func (s *GormChatStore) SaveMessages(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(&messages).Error
}

func (s *GormChatStore) GetMessage(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := s.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetChatMessages returns the full transcript in creation order, insertion
// order breaking timestamp ties.
func (s *GormChatStore) GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc, id asc").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// GetConversation returns only the human and ai messages, the history the
// orchestrator counts against the length limit.
func (s *GormChatStore) GetConversation(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).
		Where("chat_id = ? AND message_by IN ?", chatID, []string{models.MessageByHuman, models.MessageByAI}).
		Order("created_at asc, id asc").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// UpdateOffTopicCount raises the counter to count. The guard makes the write
// monotonic: a stale turn racing on the same chat cannot lower the counter or
// push it past one whose value already caught up.
func (s *GormChatStore) UpdateOffTopicCount(ctx context.Context, chatID uuid.UUID, count int) error {
	result := s.db.WithContext(ctx).
		Model(&models.Chat{}).
		Where("chat_id = ? AND off_topic_response_count < ?", chatID, count).
		Update("off_topic_response_count", count)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		log.Info().
			Str("chat_id", chatID.String()).
			Int("count", count).
			Msg("off-topic count update skipped, stored value already ahead")
	}
	return nil
}
