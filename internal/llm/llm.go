package llm

import (
	"context"
	"fmt"
)

const (
	RoleSystem    string = "system"
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Client produces one completion for an ordered role/content sequence. An
// empty string with a nil error means the upstream returned no usable text;
// the caller decides what to do with that.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// UpstreamError carries the HTTP status the completion API responded with,
// so the caller can classify quota, auth and request-shape failures without
// depending on the provider SDK.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream completion error (status %d): %v", e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
