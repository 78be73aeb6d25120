package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/mcip"
)

func TestJourneyStateStartsWithOnlyCareAssessmentUnlocked(t *testing.T) {
	coordinator := mcip.New()
	t.Cleanup(func() { _ = coordinator.Close() })

	s := New(coordinator, mcip.DefaultUnlockGraph())
	state := s.JourneyState("care_assessment")

	assert.True(t, state.UnlockedProducts["care_assessment"])
	assert.False(t, state.UnlockedProducts["cost_planner"])
	assert.False(t, state.UnlockedProducts["provider_directory"])
	assert.Equal(t, "care_assessment", state.RecommendedNext)
}

func TestCompleteProductUnlocksNextAndPublishes(t *testing.T) {
	coordinator := mcip.New()
	t.Cleanup(func() { _ = coordinator.Close() })

	received := make(chan contracts.JourneyState, 1)
	coordinator.Subscribe(mcip.ContractJourneyState, func(v any) {
		received <- v.(contracts.JourneyState)
	})

	s := New(coordinator, mcip.DefaultUnlockGraph())
	state := s.CompleteProduct("care_assessment", "cost_planner")

	assert.True(t, state.CompletedProducts["care_assessment"])
	assert.True(t, state.UnlockedProducts["cost_planner"])
	assert.False(t, state.UnlockedProducts["provider_directory"])
	assert.Equal(t, "cost_planner", state.RecommendedNext)
	assert.True(t, s.IsComplete("care_assessment"))
	assert.False(t, s.IsComplete("cost_planner"))

	select {
	case published := <-received:
		assert.Equal(t, state.RecommendedNext, published.RecommendedNext)
	case <-time.After(time.Second):
		t.Fatal("session did not publish journey state on completion")
	}
}

func TestCompletingAllProductsLeavesNoRecommendation(t *testing.T) {
	coordinator := mcip.New()
	t.Cleanup(func() { _ = coordinator.Close() })

	s := New(coordinator, mcip.DefaultUnlockGraph())
	s.CompleteProduct("care_assessment", "cost_planner")
	s.CompleteProduct("cost_planner", "provider_directory")
	state := s.CompleteProduct("provider_directory", "provider_directory")

	assert.True(t, state.UnlockedProducts["provider_directory"])
	assert.Empty(t, state.RecommendedNext)
}

func TestJourneyStateWithNilCoordinatorDoesNotPanic(t *testing.T) {
	s := New(nil, mcip.DefaultUnlockGraph())
	require.NotPanics(t, func() {
		s.CompleteProduct("care_assessment", "care_assessment")
	})
}
