package cost

import (
	"testing"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 from spec.md §8: assisted living in Seattle ZIP 98101, base $5,400,
// multiplier ~1.15, expected monthly ~$6,210.
func TestAssistedLivingSeattleScenario(t *testing.T) {
	calc := NewCalculator(DefaultTierRates(), region.DefaultTable(), nil)
	result := calc.Compute(contracts.TierAssistedLiving, "98101", "", AddonContext{}, nil)
	assert.InDelta(t, 1.15, result.RegionMultiplier, 0.0001)
	assert.InDelta(t, 6210, result.MonthlyAdjusted, 1.0)
	assertBreakdownReconciles(t, result)
}

func TestBreakdownReconcilesWithAddons(t *testing.T) {
	calc := NewCalculator(DefaultTierRates(), region.DefaultTable(), DefaultAddons())
	result := calc.Compute(contracts.TierMemoryCareHighAcuity, "98101", "", AddonContext{
		HighAcuity: true, MedComplexity: 3, ADLCount: 4,
	}, nil)
	assertBreakdownReconciles(t, result)
	assert.Equal(t, result.Annual, round2(result.MonthlyAdjusted*12))
}

func TestInHomeUsesHourlyRateWhenScalarProvided(t *testing.T) {
	calc := NewCalculator(DefaultTierRates(), region.DefaultTable(), nil)
	scalar := 6.0
	result := calc.Compute(contracts.TierInHome, "", "", AddonContext{}, &scalar)
	expectedBase := 32.0 * 6.0 * daysPerMonth
	assert.InDelta(t, expectedBase, result.Breakdown[0].Amount, 0.01)
}

func assertBreakdownReconciles(t *testing.T, result Result) {
	t.Helper()
	var sum float64
	for _, item := range result.Breakdown {
		sum += item.Amount
	}
	require.InDelta(t, result.MonthlyAdjusted, sum, 0.01)
}
