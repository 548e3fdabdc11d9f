package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mentor-backend/internal/database"
)

// DatabaseStore persists conversations and messages through gorm. It works
// against sqlite and postgres; referential integrity is enforced by the
// schema's foreign key constraint.
type DatabaseStore struct {
	db *gorm.DB
}

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) CreateConversation(ctx context.Context, title string) (*database.Conversation, error) {
	conversation := database.Conversation{Title: title}
	if err := s.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *DatabaseStore) GetConversation(ctx context.Context, id int64) (*database.Conversation, error) {
	var conversation database.Conversation
	err := s.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *DatabaseStore) GetConversations(ctx context.Context) ([]database.Conversation, error) {
	var conversations []database.Conversation
	err := s.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&conversations).
		Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (s *DatabaseStore) UpdateConversationTitle(ctx context.Context, id int64, title string) error {
	// Affects zero rows when the id is unknown; callers that care check
	// existence first.
	return s.db.WithContext(ctx).
		Model(&database.Conversation{ID: id}).
		Update("title", title).
		Error
}

func (s *DatabaseStore) CreateMessage(ctx context.Context, conversationID int64, role, content string) (*database.Message, error) {
	message := database.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	// The insert and the parent timestamp refresh are one logical operation,
	// so they share a transaction.
	err := s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Create(&message).Error; err != nil {
			return err
		}
		return txn.Model(&database.Conversation{ID: conversationID}).
			Update("updated_at", time.Now().UTC()).
			Error
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (s *DatabaseStore) GetMessagesByConversation(ctx context.Context, conversationID int64) ([]database.Message, error) {
	var messages []database.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []database.Message{}
	}
	return messages, nil
}
