// Package session is the per-user-session wiring MCIP's journey gating
// needs on top of the Coordinator's own publish/subscribe primitives: it
// tracks which products have been marked complete and republishes
// JourneyState whenever that set changes (§4.9 "journey_state() →
// JourneyState — derived from completion of publications and a
// declarative unlock graph"). The Coordinator itself stays a pure typed
// registry; this is the thin per-session state the spec's §5 concurrency
// model assigns to "session state is single-owner per session".
package session

import (
	"sync"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/mcip"
)

// Session owns one user's MCIP coordinator, unlock graph, and completion
// set. It is not safe for concurrent use from multiple goroutines beyond
// what mcip.Coordinator itself already serializes internally.
type Session struct {
	MCIP  *mcip.Coordinator
	Graph mcip.UnlockGraph

	mu        sync.Mutex
	completed map[string]bool
	hub       string
}

// New builds a Session over coordinator using graph (mcip.DefaultUnlockGraph()
// when the caller has no custom journey).
func New(coordinator *mcip.Coordinator, graph mcip.UnlockGraph) *Session {
	return &Session{
		MCIP:      coordinator,
		Graph:     graph,
		completed: make(map[string]bool),
	}
}

// CompleteProduct marks product complete, recomputes JourneyState, and
// publishes it. currentHub becomes the session's new current_hub.
func (s *Session) CompleteProduct(product, currentHub string) contracts.JourneyState {
	s.mu.Lock()
	s.completed[product] = true
	s.hub = currentHub
	completedCopy := make(map[string]bool, len(s.completed))
	for k, v := range s.completed {
		completedCopy[k] = v
	}
	s.mu.Unlock()

	state := s.Graph.JourneyState(currentHub, completedCopy)
	if s.MCIP != nil {
		_ = s.MCIP.Publish(mcip.ContractJourneyState, state)
	}
	return state
}

// JourneyState recomputes the current journey state without marking
// anything newly complete, e.g. to render a hub page.
func (s *Session) JourneyState(currentHub string) contracts.JourneyState {
	s.mu.Lock()
	completedCopy := make(map[string]bool, len(s.completed))
	for k, v := range s.completed {
		completedCopy[k] = v
	}
	s.mu.Unlock()
	return s.Graph.JourneyState(currentHub, completedCopy)
}

// IsComplete reports whether product has been marked complete.
func (s *Session) IsComplete(product string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[product]
}
