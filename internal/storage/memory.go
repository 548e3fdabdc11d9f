package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"mentor-backend/internal/database"
)

// MemoryStore keeps everything in process memory. It exists for local runs
// and tests; nothing survives a restart.
type MemoryStore struct {
	mu                 sync.Mutex
	conversations      map[int64]database.Conversation
	messages           map[int64]database.Message
	nextConversationID int64
	nextMessageID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations:      make(map[int64]database.Conversation),
		messages:           make(map[int64]database.Message),
		nextConversationID: 1,
		nextMessageID:      1,
	}
}

func (s *MemoryStore) CreateConversation(ctx context.Context, title string) (*database.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	conversation := database.Conversation{
		ID:        s.nextConversationID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextConversationID++
	s.conversations[conversation.ID] = conversation

	return &conversation, nil
}

func (s *MemoryStore) GetConversation(ctx context.Context, id int64) (*database.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	return &conversation, nil
}

func (s *MemoryStore) GetConversations(ctx context.Context) ([]database.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := make([]database.Conversation, 0, len(s.conversations))
	for _, conversation := range s.conversations {
		conversations = append(conversations, conversation)
	}
	sort.Slice(conversations, func(i, j int) bool {
		if conversations[i].UpdatedAt.Equal(conversations[j].UpdatedAt) {
			return conversations[i].ID > conversations[j].ID
		}
		return conversations[i].UpdatedAt.After(conversations[j].UpdatedAt)
	})

	return conversations, nil
}

func (s *MemoryStore) UpdateConversationTitle(ctx context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Unknown ids are a no-op, matching the zero-rows-affected update the
	// database backend would issue.
	if conversation, ok := s.conversations[id]; ok {
		conversation.Title = title
		conversation.UpdatedAt = time.Now().UTC()
		s.conversations[id] = conversation
	}
	return nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, conversationID int64, role, content string) (*database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	message := database.Message{
		ID:             s.nextMessageID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	s.nextMessageID++
	s.messages[message.ID] = message

	// No existence check on the parent: a dangling reference is tolerated
	// here, unlike the database backend's foreign key constraint.
	if conversation, ok := s.conversations[conversationID]; ok {
		conversation.UpdatedAt = now
		s.conversations[conversationID] = conversation
	}

	return &message, nil
}

func (s *MemoryStore) GetMessagesByConversation(ctx context.Context, conversationID int64) ([]database.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]database.Message, 0)
	for _, message := range s.messages {
		if message.ConversationID == conversationID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}
