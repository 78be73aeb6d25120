package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTableMatchesBundledDefaults(t *testing.T) {
	table, err := LoadTable("../testdata/reference/regional_costs.json")
	require.NoError(t, err)

	res := table.Resolve("98101", "")
	assert.Equal(t, PrecisionZIP, res.Precision)
	assert.InDelta(t, 1.15, res.Multiplier, 0.0001)
}
