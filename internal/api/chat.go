package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"mentor-backend/internal/database"
	"mentor-backend/internal/llm"
	"mentor-backend/internal/storage"
	"mentor-backend/pkg/api"
)

const (
	assistantName = "AI Mentor Buddy"

	maxMessageRunes = 2000
	maxTitleRunes   = 50
)

const careerSystemPrompt = `You are AI Mentor Buddy, a specialized assistant focused on helping people with their career development and professional growth. Your expertise includes:

- Career exploration and path planning
- Skills assessment and development recommendations
- Industry insights and job market trends
- Interview preparation and resume guidance
- Professional networking advice
- Education and certification recommendations
- Work-life balance and career transitions

Always provide actionable, personalized advice. Ask follow-up questions to better understand the user's situation, goals, and preferences. Be encouraging and supportive while being realistic about career challenges and opportunities.

Keep responses conversational, well-structured, and focused on practical next steps the user can take.`

const fallbackReply = "I apologize, but I couldn't generate a response. Please try again."

type ChatService struct {
	store storage.Store
	llm   llm.Client
}

func NewChatService(store storage.Store, client llm.Client) *ChatService {
	return &ChatService{store: store, llm: client}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", RestHandler(s.GetConversations))
		r.Get("/{conversation_id}", RestHandler(s.GetConversation))
		r.Post("/{conversation_id}/rename", RestHandler(s.RenameConversation))
		r.Get("/{conversation_id}/export", s.ExportConversation)
	})
	r.Post("/chat", RestHandler(s.Chat))
}

func (s *ChatService) GetConversations(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[api.ListConversationsQuery](r)
	if err != nil {
		return nil, err
	}

	conversations, err := s.store.GetConversations(r.Context())
	if err != nil {
		slog.Error("error listing conversations", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch conversations")
	}

	return toConversations(paginate(conversations, query.Offset, query.Limit)), nil
}

func (s *ChatService) GetConversation(r *http.Request) (any, error) {
	conversationID, err := URLParamInt(r, "conversation_id")
	if err != nil {
		return nil, err
	}

	ctx := r.Context()

	conversation, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		slog.Error("error fetching conversation", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch conversation")
	}
	if conversation == nil {
		return nil, CodedErrorf(http.StatusNotFound, "conversation not found")
	}

	messages, err := s.store.GetMessagesByConversation(ctx, conversationID)
	if err != nil {
		slog.Error("error fetching messages", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch conversation")
	}

	return api.GetConversationResponse{
		Conversation: toConversation(*conversation),
		Messages:     toMessages(messages),
	}, nil
}

func (s *ChatService) RenameConversation(r *http.Request) (any, error) {
	conversationID, err := URLParamInt(r, "conversation_id")
	if err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.RenameConversationRequest](r)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Title) == 0 {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid request format")
	}

	if err := s.store.UpdateConversationTitle(r.Context(), conversationID, req.Title); err != nil {
		slog.Error("error renaming conversation", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to rename conversation")
	}

	return nil, nil
}

// Chat handles one turn: resolve or create the conversation, persist the user
// message, replay the full history into the model and persist its reply. A
// failure after the user message is stored leaves that message in place; a
// turn without a reply is a valid state the client can resume from.
func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	ctx := r.Context()

	var conversationID int64
	if req.ConversationID != nil {
		conversationID = *req.ConversationID
	} else {
		conversation, err := s.store.CreateConversation(ctx, conversationTitle(req.Message))
		if err != nil {
			slog.Error("error creating conversation", "error", err)
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
		}
		conversationID = conversation.ID
	}

	if _, err := s.store.CreateMessage(ctx, conversationID, database.RoleUser, req.Message); err != nil {
		slog.Error("error saving user message", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
	}

	history, err := s.store.GetMessagesByConversation(ctx, conversationID)
	if err != nil {
		slog.Error("error loading message history", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
	}

	prompt := make([]llm.Message, 0, len(history)+1)
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: careerSystemPrompt})
	for _, msg := range history {
		prompt = append(prompt, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, classifyUpstreamError(err)
	}
	if reply == "" {
		reply = fallbackReply
	}

	assistantMessage, err := s.store.CreateMessage(ctx, conversationID, database.RoleAssistant, reply)
	if err != nil {
		slog.Error("error saving assistant message", "conversation_id", conversationID, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
	}

	return api.ChatResponse{
		Message:        reply,
		ConversationID: conversationID,
		MessageID:      assistantMessage.ID,
	}, nil
}

func (s *ChatService) ExportConversation(w http.ResponseWriter, r *http.Request) {
	conversationID, err := URLParamInt(r, "conversation_id")
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	ctx := r.Context()

	conversation, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		slog.Error("error fetching conversation for export", "conversation_id", conversationID, "error", err)
		WriteErrorResponse(w, CodedErrorf(http.StatusInternalServerError, "failed to export conversation"))
		return
	}
	if conversation == nil {
		WriteErrorResponse(w, CodedErrorf(http.StatusNotFound, "conversation not found"))
		return
	}

	messages, err := s.store.GetMessagesByConversation(ctx, conversationID)
	if err != nil {
		slog.Error("error fetching messages for export", "conversation_id", conversationID, "error", err)
		WriteErrorResponse(w, CodedErrorf(http.StatusInternalServerError, "failed to export conversation"))
		return
	}

	var export strings.Builder
	fmt.Fprintf(&export, "%s Conversation: %s\n", assistantName, conversation.Title)
	fmt.Fprintf(&export, "Date: %s\n\n", conversation.CreatedAt.Format("January 2, 2006"))
	for _, msg := range messages {
		speaker := "You"
		if msg.Role == database.RoleAssistant {
			speaker = assistantName
		}
		fmt.Fprintf(&export, "%s:\n%s\n\n", speaker, msg.Content)
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("mentor-buddy-chat-%d.txt", conversationID)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(export.String())); err != nil {
		slog.Error("error writing export body", "conversation_id", conversationID, "error", err)
	}
}

// validateChatRequest enforces the request shape before any storage or
// upstream work happens. Every violation reports the same generic message.
func validateChatRequest(req api.ChatRequest) error {
	length := utf8.RuneCountInString(req.Message)
	if length < 1 || length > maxMessageRunes {
		return CodedErrorf(http.StatusBadRequest, "invalid request format")
	}
	if req.ConversationID != nil && *req.ConversationID <= 0 {
		return CodedErrorf(http.StatusBadRequest, "invalid request format")
	}
	return nil
}

// conversationTitle derives a title from the first user message: the first 50
// characters, with an ellipsis marker when truncated.
func conversationTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= maxTitleRunes {
		return message
	}
	return string(runes[:maxTitleRunes]) + "..."
}

// classifyUpstreamError translates the status carried on a completion failure
// into the client-facing taxonomy. Classification happens once, here; there
// are no retries.
func classifyUpstreamError(err error) error {
	var uerr *llm.UpstreamError
	if errors.As(err, &uerr) {
		switch uerr.StatusCode {
		case http.StatusTooManyRequests:
			return ClassifiedErrorf(http.StatusTooManyRequests, "quota_exceeded",
				"OpenAI API quota exceeded. Please check your billing details at platform.openai.com or add credits to your account.")
		case http.StatusUnauthorized:
			return ClassifiedErrorf(http.StatusUnauthorized, "invalid_api_key",
				"Invalid OpenAI API key. Please check your API key configuration.")
		case http.StatusBadRequest:
			return ClassifiedErrorf(http.StatusBadRequest, "api_request_error",
				"OpenAI API request error. Please try again.")
		}
	}

	slog.Error("chat completion failed", "error", err)
	return CodedErrorf(http.StatusInternalServerError, "failed to process chat message")
}

func paginate(conversations []database.Conversation, offset, limit int) []database.Conversation {
	if offset > 0 {
		if offset >= len(conversations) {
			return nil
		}
		conversations = conversations[offset:]
	}
	if limit > 0 && limit < len(conversations) {
		conversations = conversations[:limit]
	}
	return conversations
}
