package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S6 from spec.md §8.
func TestRegionalPrecedenceCascade(t *testing.T) {
	table := DefaultTable()

	exact := table.Resolve("98101", "")
	assert.Equal(t, PrecisionZIP, exact.Precision)
	assert.InDelta(t, 1.15, exact.Multiplier, 0.0001)

	zip3 := table.Resolve("98199", "")
	assert.Equal(t, PrecisionZIP3, zip3.Precision)
	assert.InDelta(t, 1.10, zip3.Multiplier, 0.0001)

	state := table.Resolve("90210", "CA")
	assert.Equal(t, PrecisionState, state.Precision)
	assert.InDelta(t, 1.12, state.Multiplier, 0.0001)

	national := table.Resolve("", "")
	assert.Equal(t, PrecisionNational, national.Precision)
	assert.Equal(t, 1.0, national.Multiplier)
	assert.Equal(t, "National Average", national.RegionName)
}
