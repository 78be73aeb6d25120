package outcomelog

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/carecoord/internal/adjudicator"
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/stretchr/testify/require"
)

func TestLogDecisionAndQueryRate(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.LogDecision(ctx, adjudicator.DecisionRecord{
		Tier: contracts.TierInHome, DecisionPath: adjudicator.DecisionLLMAccepted,
		Confidence: 0.8, RuleSet: "v1", Version: "2026.1", Timestamp: time.Now(),
	}))
	require.NoError(t, store.LogDecision(ctx, adjudicator.DecisionRecord{
		Tier: contracts.TierAssistedLiving, DecisionPath: adjudicator.DecisionDeterministicFallback,
		Confidence: 0.6, RuleSet: "v1", Version: "2026.1", Timestamp: time.Now(),
	}))

	rate, err := store.DecisionPathRate(ctx, adjudicator.DecisionLLMAccepted, 10)
	require.NoError(t, err)
	require.InDelta(t, 0.5, rate, 0.001)
}
