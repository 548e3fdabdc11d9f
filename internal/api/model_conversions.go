package api

import (
	"mentor-backend/internal/database"
	"mentor-backend/pkg/api"
)

func toConversation(conversation database.Conversation) api.Conversation {
	return api.Conversation{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

func toConversations(conversations []database.Conversation) []api.Conversation {
	result := make([]api.Conversation, len(conversations))
	for i, conversation := range conversations {
		result[i] = toConversation(conversation)
	}
	return result
}

func toMessage(message database.Message) api.Message {
	return api.Message{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		Role:           message.Role,
		Content:        message.Content,
		CreatedAt:      message.CreatedAt,
	}
}

func toMessages(messages []database.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, message := range messages {
		result[i] = toMessage(message)
	}
	return result
}
