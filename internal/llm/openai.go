package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// Generation parameters are fixed; there is no per-request tuning surface.
	replyMaxTokens   = 1000
	replyTemperature = 0.7
)

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		Model:       o.model,
		MaxTokens:   openai.Int(replyMaxTokens),
		Temperature: openai.Float(replyTemperature),
	}

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	res, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return "", &UpstreamError{StatusCode: apierr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return "", nil
	}
	return res.Choices[0].Message.Content, nil
}
