package llmclient

import (
	"context"
	"time"
)

// FixtureProvider returns a canned response, or hangs until its context is
// cancelled when Delay exceeds the caller's timeout. Used by tests that
// exercise the adjudicator and hours estimator without a live model.
type FixtureProvider struct {
	Content   string
	Delay     time.Duration
	Unavailable bool
}

func (f *FixtureProvider) Name() string { return "fixture" }

func (f *FixtureProvider) Available() bool { return !f.Unavailable }

func (f *FixtureProvider) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &ChatResponse{Content: f.Content, Model: "fixture"}, nil
}
