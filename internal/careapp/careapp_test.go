package careapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/carecoord/internal/adjudicator"
	"github.com/brightpath/carecoord/internal/assessment"
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/flags"
	"github.com/brightpath/carecoord/internal/mcip"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/scoring"
)

func newTestApp(t *testing.T) (*App, *mcip.Coordinator) {
	t.Helper()
	registry := flags.DefaultRegistry()
	loader := moduleconfig.NewLoader(registry)
	module, err := loader.LoadFile("../testdata/modules/care_assessment.json")
	require.NoError(t, err)

	coordinator := mcip.New()
	t.Cleanup(func() { _ = coordinator.Close() })

	// LLM disabled: the adjudicator falls straight to deterministic
	// scoring, matching S4's "LLM disabled" fixed point.
	adj := adjudicator.New(nil, false, 0, "care_v1", "1.0.0", nil)

	app := New(module, assessment.NewRuntime(nil), scoring.NewEngine(nil), adj, registry, nil, coordinator)
	return app, coordinator
}

// S1 from spec.md §8: assisted living, moderate needs.
func TestAssistedLivingScenarioPublishesToMCIP(t *testing.T) {
	app, coordinator := newTestApp(t)
	state := assessment.NewState()

	answers := map[string]any{
		"lives_alone":            "with_family",
		"badl_help":              []string{"bathing"},
		"fall_history":           "near_miss",
		"home_safety":            "some_concerns",
		"cognitive_status":       "mild",
		"caregiver_availability": "limited",
		"veteran_status":         "yes",
	}
	for id, v := range answers {
		require.NoError(t, state.ApplyAnswer(app.Module, id, v))
	}

	rec, err := app.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, contracts.TierAssistedLiving, rec.Tier)
	assert.True(t, rec.TierScore >= 17 && rec.TierScore <= 24, "score %v out of assisted_living band", rec.TierScore)
	assert.Contains(t, flagNames(rec.Flags), "moderate_safety_concern")
	assert.Contains(t, flagNames(rec.Flags), "veteran_aanda_risk")
	assert.Equal(t, "cost_planner", rec.NextStep.Route)
	assert.NotEmpty(t, rec.InputSnapshotID)
	assert.Equal(t, adjudicator.DecisionDeterministicFallback, rec.DecisionPath)

	published, ok := coordinator.Get(mcip.ContractCareRecommendation)
	require.True(t, ok)
	assert.Equal(t, rec.Tier, published.(contracts.CareRecommendation).Tier)
}

// S2 from spec.md §8: wandering + aggression ends at memory_care_high_acuity.
// With these answers the summed score (62) already falls in the high-acuity
// band; the module's wandering+aggression behavior gate floors the same tier.
func TestWanderingAndAggressionGateToHighAcuity(t *testing.T) {
	app, _ := newTestApp(t)
	state := assessment.NewState()

	answers := map[string]any{
		"lives_alone":            "with_family",
		"badl_help":              []string{"bathing", "toileting", "dressing"},
		"fall_history":           "none",
		"home_safety":            "safe",
		"cognitive_status":       "moderate",
		"behaviors":              []string{"wandering", "aggression"},
		"caregiver_availability": "limited",
		"high_risk_medication":   "yes",
	}
	for id, v := range answers {
		require.NoError(t, state.ApplyAnswer(app.Module, id, v))
	}

	rec, err := app.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, contracts.TierMemoryCareHighAcuity, rec.Tier)
	assert.GreaterOrEqual(t, rec.Confidence, 0.6)
}

// S3 from spec.md §8: a clean profile recommends no_care_needed but still
// offers a next step.
func TestCleanProfileRecommendsNoCareNeeded(t *testing.T) {
	app, _ := newTestApp(t)
	state := assessment.NewState()

	answers := map[string]any{
		"lives_alone":            "with_family",
		"badl_help":              []string{"none"},
		"fall_history":           "none",
		"home_safety":            "safe",
		"cognitive_status":       "none",
		"caregiver_availability": "full_time",
	}
	for id, v := range answers {
		require.NoError(t, state.ApplyAnswer(app.Module, id, v))
	}

	rec, err := app.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, contracts.TierNoCareNeeded, rec.Tier)
	assert.LessOrEqual(t, rec.TierScore, float64(8))
	assert.Equal(t, "cost_planner", rec.NextStep.Route)
	assert.Empty(t, flagNamesOf(rec.Flags, "unsafe_environment", "wandering", "aggression"))
}

func flagNames(records []contracts.FlagRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func flagNamesOf(records []contracts.FlagRecord, names ...string) []string {
	present := map[string]bool{}
	for _, r := range records {
		present[r.Name] = true
	}
	var out []string
	for _, n := range names {
		if present[n] {
			out = append(out, n)
		}
	}
	return out
}
