package api

import "time"

type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID *int64 `json:"conversationId,omitempty"`
}

type ChatResponse struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversationId"`
	MessageID      int64  `json:"messageId"`
}

type GetConversationResponse struct {
	Conversation Conversation `json:"conversation"`
	Messages     []Message    `json:"messages"`
}

type RenameConversationRequest struct {
	Title string `json:"title"`
}

type ListConversationsQuery struct {
	Limit  int `schema:"limit"`
	Offset int `schema:"offset"`
}

type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
}
