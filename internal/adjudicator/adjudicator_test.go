package adjudicator

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/llmclient"
	"github.com/brightpath/carecoord/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() Input {
	return Input{
		AllowedTiers: []contracts.Tier{contracts.TierInHome, contracts.TierAssistedLiving, contracts.TierMemoryCare},
		ScoringResult: scoring.Result{
			TopTier:    contracts.TierInHome,
			TotalScore: 10,
			Confidence: 0.7,
			Rationale:  []string{"baseline reason"},
			Rankings: []contracts.TierScore{
				{Tier: contracts.TierInHome, Score: 0},
			},
		},
	}
}

func TestAdjudicateFallsBackWhenDisabled(t *testing.T) {
	a := New(nil, false, 0, "v1", "2026.1", nil)
	rec := a.Adjudicate(context.Background(), baseInput())
	assert.Equal(t, contracts.TierInHome, rec.Tier)
	assert.Equal(t, DecisionDeterministicFallback, rec.DecisionPath)
}

func TestAdjudicateAcceptsValidLLMTier(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"tier":"assisted_living","confidence":0.8}`}
	a := New(llmclient.New(p, time.Second), true, 0.5, "v1", "2026.1", nil)

	rec := a.Adjudicate(context.Background(), baseInput())
	assert.Equal(t, contracts.TierAssistedLiving, rec.Tier)
	assert.Equal(t, DecisionLLMAccepted, rec.DecisionPath)
}

func TestAdjudicateRejectsTierOutsideAllowedSet(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"tier":"memory_care_high_acuity","confidence":0.9}`}
	a := New(llmclient.New(p, time.Second), true, 0.5, "v1", "2026.1", nil)

	rec := a.Adjudicate(context.Background(), baseInput())
	assert.Equal(t, contracts.TierInHome, rec.Tier)
	assert.Equal(t, DecisionDeterministicFallback, rec.DecisionPath)
}

func TestAdjudicateRejectsSafetyRuleViolation(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"tier":"no_care_needed","confidence":0.9}`}
	a := New(llmclient.New(p, time.Second), true, 0.5, "v1", "2026.1", nil)

	in := baseInput()
	in.AllowedTiers = append(in.AllowedTiers, contracts.TierNoCareNeeded)
	in.SafetyCriticalFlagSet = true

	rec := a.Adjudicate(context.Background(), in)
	assert.Equal(t, contracts.TierInHome, rec.Tier) // deterministic fallback, not the rejected LLM tier
	assert.Equal(t, DecisionDeterministicFallback, rec.DecisionPath)
}

type recordingLogger struct {
	recs []DecisionRecord
}

func (r *recordingLogger) LogDecision(ctx context.Context, rec DecisionRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

func TestAdjudicateLogsDecision(t *testing.T) {
	logger := &recordingLogger{}
	a := New(nil, false, 0, "v1", "2026.1", logger)
	a.Adjudicate(context.Background(), baseInput())

	require.Len(t, logger.recs, 1)
	assert.Equal(t, DecisionDeterministicFallback, logger.recs[0].DecisionPath)
}
