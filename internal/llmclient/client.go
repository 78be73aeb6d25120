package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTimeout is returned when a request exceeds its deadline. Callers treat
// this identically to any other adjudication failure: fall back, don't
// retry (§4.11 "no retries").
var ErrTimeout = errors.New("llmclient: request timed out")

// ErrInvalidResponse wraps a schema or JSON-parse failure. The offending
// raw text is deliberately not attached: it is never surfaced past this
// package (§4.11 "never surface raw LLM text").
var ErrInvalidResponse = errors.New("llmclient: invalid response")

// Client enforces the timeout + parse + validate pipeline around a
// Provider.
type Client struct {
	Provider Provider
	Timeout  time.Duration
}

// New builds a Client. A zero timeout defaults to 15 seconds (§4.11).
func New(p Provider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{Provider: p, Timeout: timeout}
}

// Ask sends a structured request and returns the parsed, schema-validated
// JSON object. Any failure — timeout, malformed JSON, schema mismatch — is
// collapsed to a wrapped sentinel so callers can fall back deterministically
// without inspecting provider internals.
func (c *Client) Ask(ctx context.Context, systemPrompt, userPrompt string, schema Schema) (map[string]any, error) {
	if c.Provider == nil || !c.Provider.Available() {
		return nil, fmt.Errorf("%w: no provider available", ErrInvalidResponse)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.Provider.Chat(ctx, &ChatRequest{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &data); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidResponse)
	}

	if err := schema.Validate(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return data, nil
}

// extractJSON strips a markdown code fence around a JSON object, if the
// model wrapped its reply in one. Returns the input unchanged otherwise.
func extractJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
