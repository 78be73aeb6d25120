package varates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPicksHighestBracketAtOrBelowRating(t *testing.T) {
	table := DefaultTable()
	amount, ok := table.Lookup(70, true)
	require.True(t, ok)
	assert.InDelta(t, 1908.95, amount, 0.001, "spec.md S1: 70% with spouse")

	amount, ok = table.Lookup(65, false)
	require.True(t, ok)
	assert.InDelta(t, 1102.04, amount, 0.001, "65 falls in the 50-69 bracket, not 70")
}

func TestLookupRejectsUnratedVeterans(t *testing.T) {
	_, ok := DefaultTable().Lookup(0, false)
	assert.False(t, ok)
}

func TestLoadMatchesBundledDefaults(t *testing.T) {
	table, err := Load("../testdata/reference/va_rates.json")
	require.NoError(t, err)
	amount, ok := table.Lookup(100, false)
	require.True(t, ok)
	assert.InDelta(t, 3737.85, amount, 0.001)
}
