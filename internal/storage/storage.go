package storage

import (
	"context"

	"mentor-backend/internal/database"
)

// Store is the persistence contract for conversations and messages. The two
// implementations (MemoryStore, DatabaseStore) are interchangeable from the
// caller's point of view, with two documented divergences:
//
//   - MemoryStore accepts messages whose conversation does not exist (the
//     dangling reference is tolerated); DatabaseStore rejects them through
//     its foreign key constraint.
//   - UpdateConversationTitle on an unknown id is a silent no-op in
//     MemoryStore, while DatabaseStore issues an update affecting zero rows.
//
// Both behaviors are inherited from the product and asserted by tests rather
// than reconciled.
type Store interface {
	// CreateConversation assigns a new id, stamps both timestamps to now and
	// returns the stored record.
	CreateConversation(ctx context.Context, title string) (*database.Conversation, error)

	// GetConversation returns (nil, nil) when no conversation has the given
	// id; absence is not an error.
	GetConversation(ctx context.Context, id int64) (*database.Conversation, error)

	// GetConversations returns all conversations, most recently updated first.
	GetConversations(ctx context.Context) ([]database.Conversation, error)

	UpdateConversationTitle(ctx context.Context, id int64, title string) error

	// CreateMessage persists the message and refreshes the parent
	// conversation's UpdatedAt as one logical operation.
	CreateMessage(ctx context.Context, conversationID int64, role, content string) (*database.Message, error)

	// GetMessagesByConversation returns messages in creation order. The result
	// is empty, not an error, when the conversation has no messages or does
	// not exist.
	GetMessagesByConversation(ctx context.Context, conversationID int64) ([]database.Message, error)
}
