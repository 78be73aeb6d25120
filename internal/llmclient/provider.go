// Package llmclient is the LLM Client Adapter (§4.11): a narrow
// request/response shape around a pluggable Provider, with strict JSON
// parsing, a schema check, and a hard timeout. Callers never see the raw
// provider text on failure, only a typed error.
package llmclient

import (
	"context"
	"time"
)

// Provider is the seam between this package and a concrete model backend.
// Mirrors the shape of a chat completion, trimmed to what adjudication and
// hours refinement actually need.
type Provider interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Name() string
	Available() bool
}

// ChatRequest is one completion request.
type ChatRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ChatResponse is a provider's raw reply.
type ChatResponse struct {
	Content  string
	Model    string
	Duration time.Duration
}
