package scoring

import (
	"testing"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholds() map[string]moduleconfig.Band {
	maxInHome := 16
	maxAL := 24
	maxMC := 39
	return map[string]moduleconfig.Band{
		"no_care_needed":           {Min: 0, Max: intPtr(8)},
		"in_home":                  {Min: 9, Max: &maxInHome},
		"assisted_living":          {Min: 17, Max: &maxAL},
		"memory_care":              {Min: 25, Max: &maxMC},
		"memory_care_high_acuity": {Min: 40, Max: nil},
	}
}

func intPtr(v int) *int { return &v }

func TestRankingsContainEveryTierExactlyOnce(t *testing.T) {
	m := &moduleconfig.Module{Scoring: moduleconfig.ScoringConfig{Thresholds: thresholds()}}
	eng := NewEngine(nil)
	result, err := eng.Score(m, map[string]any{}, nil, map[string]bool{})
	require.NoError(t, err)
	require.Len(t, result.Rankings, 5)
	seen := map[contracts.Tier]bool{}
	for _, r := range result.Rankings {
		seen[r.Tier] = true
	}
	for _, tier := range contracts.Tiers {
		assert.True(t, seen[tier], "missing tier %s", tier)
	}
}

func TestMissingThresholdsFails(t *testing.T) {
	m := &moduleconfig.Module{Scoring: moduleconfig.ScoringConfig{Thresholds: map[string]moduleconfig.Band{
		"no_care_needed": {Min: 0, Max: intPtr(8)},
	}}}
	eng := NewEngine(nil)
	_, err := eng.Score(m, map[string]any{}, nil, map[string]bool{})
	require.ErrorIs(t, err, ErrMissingThresholds)
}

// S1 from spec.md §8: moderate needs, assisted living band.
func TestAssistedLivingScenario(t *testing.T) {
	m := &moduleconfig.Module{
		Scoring: moduleconfig.ScoringConfig{
			Thresholds:        thresholds(),
			FlagContributions: map[string]int{"veteran_aanda_risk": 3},
		},
		Questions: []moduleconfig.Question{
			{ID: "badl_count", Type: moduleconfig.TypeSingleSelect, Required: true, Label: "BADLs needing help",
				Options: []moduleconfig.Option{{Value: "2", Label: "Two", Score: 8}}},
			{ID: "falls", Type: moduleconfig.TypeSingleSelect, Required: true, Label: "Falls",
				Options: []moduleconfig.Option{{Value: "one", Label: "One fall", Score: 6, Flags: []string{"moderate_safety_concern"}}}},
			{ID: "cognition", Type: moduleconfig.TypeSingleSelect, Required: true, Label: "Cognition",
				Options: []moduleconfig.Option{{Value: "mild", Label: "Mild changes", Score: 4}}},
		},
	}
	merged := map[string]any{"badl_count": "2", "falls": "one", "cognition": "mild"}
	visible := m.Questions
	raised := map[string]bool{"moderate_safety_concern": true, "veteran_aanda_risk": true}

	eng := NewEngine(nil)
	result, err := eng.Score(m, merged, visible, raised)
	require.NoError(t, err)
	assert.Equal(t, contracts.TierAssistedLiving, result.TopTier)
	assert.InDelta(t, 21, result.TotalScore, 0.001) // 8+6+4+3
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.NotEmpty(t, result.Rationale)
}

// S2 from spec.md §8: wandering+aggression gate floors to high acuity.
func TestBehaviorGateRaisesToHighAcuity(t *testing.T) {
	gates := []moduleconfig.BehaviorGate{
		{
			ID:    "wandering_aggression_gate",
			When:  moduleconfig.Predicate{All: []moduleconfig.Predicate{{Flag: "wandering"}, {Flag: "aggression"}}},
			Floor: "memory_care_high_acuity",
			Reason: "wandering combined with aggression is a safety-critical combination",
		},
	}
	ctx := moduleconfig.Context{Flags: map[string]bool{"wandering": true, "aggression": true}}
	final, outcomes := ApplyGates(gates, ctx, contracts.TierMemoryCare)
	assert.Equal(t, contracts.TierMemoryCareHighAcuity, final)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "wandering_aggression_gate", outcomes[0].GateID)
}

func TestGateNeverLowersWithoutAllowDowngrade(t *testing.T) {
	gates := []moduleconfig.BehaviorGate{
		{ID: "g", When: moduleconfig.Predicate{Flag: "independent_adls"}, Ceiling: "no_care_needed"},
	}
	ctx := moduleconfig.Context{Flags: map[string]bool{"independent_adls": true}}
	final, outcomes := ApplyGates(gates, ctx, contracts.TierAssistedLiving)
	assert.Equal(t, contracts.TierAssistedLiving, final)
	assert.Empty(t, outcomes)
}

// S3: clean profile, no care needed, confidence reasonably high.
func TestNoCareNeededScenario(t *testing.T) {
	m := &moduleconfig.Module{
		Scoring: moduleconfig.ScoringConfig{Thresholds: thresholds()},
		Questions: []moduleconfig.Question{
			{ID: "badls", Type: moduleconfig.TypeSingleSelect, Required: true, Label: "BADLs",
				Options: []moduleconfig.Option{{Value: "none", Label: "Independent", Score: 0, Flags: []string{"independent_adls"}}}},
		},
	}
	merged := map[string]any{"badls": "none"}
	eng := NewEngine(nil)
	result, err := eng.Score(m, merged, m.Questions, map[string]bool{"independent_adls": true})
	require.NoError(t, err)
	assert.Equal(t, contracts.TierNoCareNeeded, result.TopTier)
}
