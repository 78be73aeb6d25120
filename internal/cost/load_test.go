package cost

import (
	"testing"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTierRatesMatchesBundledDefaults(t *testing.T) {
	rates, err := LoadTierRates("../testdata/reference/tier_costs.json")
	require.NoError(t, err)
	assert.Equal(t, 5400.0, rates.MonthlyBase[contracts.TierAssistedLiving])
	assert.Equal(t, 32.0, rates.HourlyRate)
}

func TestLoadAddonsMatchesBundledDefaults(t *testing.T) {
	addons, err := LoadAddons("../testdata/reference/addon_rules.json")
	require.NoError(t, err)
	require.Len(t, addons, 3)
	assert.Equal(t, "High-acuity care premium", addons[0].Label)
}
