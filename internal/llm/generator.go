package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Generator sends a prompt as the sole user message to a language-model
// completion service configured for JSON output and returns the parsed
// JSON value verbatim. It does not interpret the content, cache, or
// retry; callers own those decisions.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
	Close() error
}

// ErrUnavailable indicates the completion service was unreachable or
// returned no usable content.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service unavailable: %v", e.Err)
	}
	return "generation service unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrBadJSON indicates the model replied with text that is not valid
// JSON. The raw reply is kept for logging.
type ErrBadJSON struct {
	Raw string
	Err error
}

func (e *ErrBadJSON) Error() string {
	return fmt.Sprintf("model response is not valid JSON: %v", e.Err)
}

func (e *ErrBadJSON) Unwrap() error { return e.Err }
