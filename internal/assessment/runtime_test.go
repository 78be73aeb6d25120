package assessment

import (
	"testing"

	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModule() *moduleconfig.Module {
	return &moduleconfig.Module{
		ID: "care",
		Questions: []moduleconfig.Question{
			{
				ID: "lives_alone", Type: moduleconfig.TypeSingleSelect, Label: "Lives alone?",
				Level: moduleconfig.LevelBasic, Required: true,
				Options: []moduleconfig.Option{
					{Value: "yes", Label: "Yes", Flags: []string{"moderate_safety_concern"}},
					{Value: "no", Label: "No"},
				},
			},
			{
				ID: "fall_detail", Type: moduleconfig.TypeText, Label: "Tell us about the fall",
				Level: moduleconfig.LevelBasic,
				VisibleIf: &moduleconfig.Predicate{Field: "lives_alone", Op: moduleconfig.OpEquals, Value: "yes"},
			},
		},
	}
}

func TestVisibilityUsesCurrentRenderNotOnlyPersisted(t *testing.T) {
	rt := NewRuntime(nil)
	m := sampleModule()
	state := NewState()

	result := rt.Evaluate(m, state)
	assert.Len(t, result.VisibleQuestions, 1, "fall_detail should not be visible yet")

	require.NoError(t, state.ApplyAnswer(m, "lives_alone", "yes"))
	result = rt.Evaluate(m, state)
	require.Len(t, result.VisibleQuestions, 2, "fall_detail must appear on the same render, before Commit")
	assert.True(t, result.Flags["moderate_safety_concern"])
}

func TestApplyAnswerRejectsUnknownOption(t *testing.T) {
	m := sampleModule()
	state := NewState()
	err := state.ApplyAnswer(m, "lives_alone", "maybe")
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompletenessCountsOnlyRequiredVisibleQuestions(t *testing.T) {
	rt := NewRuntime(nil)
	m := sampleModule()
	state := NewState()

	result := rt.Evaluate(m, state)
	assert.Equal(t, 0.0, result.Completeness)

	require.NoError(t, state.ApplyAnswer(m, "lives_alone", "no"))
	result = rt.Evaluate(m, state)
	assert.Equal(t, 1.0, result.Completeness, "fall_detail is optional and not visible")
}

func TestCommitFoldsCurrentIntoPersisted(t *testing.T) {
	m := sampleModule()
	state := NewState()
	require.NoError(t, state.ApplyAnswer(m, "lives_alone", "yes"))
	state.Commit()
	assert.Equal(t, "yes", state.Persisted["lives_alone"])
	assert.Empty(t, state.Current)
}

type stubVARates struct {
	amount  float64
	gotDeps *bool
}

func (s stubVARates) Lookup(rating int, hasDependents bool) (float64, bool) {
	if s.gotDeps != nil {
		*s.gotDeps = hasDependents
	}
	return s.amount, true
}

func TestDerivedFieldsSumAndVALookup(t *testing.T) {
	m := &moduleconfig.Module{
		ID: "financial",
		Questions: []moduleconfig.Question{
			{ID: "income_ss", Type: moduleconfig.TypeCurrency, Label: "Social Security", Level: moduleconfig.LevelBasic},
			{ID: "income_pension", Type: moduleconfig.TypeCurrency, Label: "Pension", Level: moduleconfig.LevelBasic},
			{ID: "va_rating", Type: moduleconfig.TypeNumeric, Label: "VA rating", Level: moduleconfig.LevelBasic},
			{ID: "va_has_dependents", Type: moduleconfig.TypeText, Label: "Has dependents", Level: moduleconfig.LevelBasic},
		},
		DerivedFields: []moduleconfig.DerivedField{
			{ID: "va_income", Kind: moduleconfig.DerivedVALookup, Inputs: []string{"va_rating", "va_has_dependents"}},
			{ID: "total_monthly_income", Kind: moduleconfig.DerivedSum, Inputs: []string{"income_ss", "income_pension", "va_income"}},
		},
	}
	rt := NewRuntime(stubVARates{amount: 1908.95})
	state := NewState()
	require.NoError(t, state.ApplyAnswer(m, "income_ss", 1200.0))
	require.NoError(t, state.ApplyAnswer(m, "income_pension", 400.0))
	state.Current["va_rating"] = 70.0
	state.Current["va_has_dependents"] = true

	result := rt.Evaluate(m, state)
	assert.InDelta(t, 1908.95, result.DerivedFields["va_income"], 0.001)
	assert.InDelta(t, 1200+400+1908.95, result.DerivedFields["total_monthly_income"], 0.001)
}

// TestVALookupAcceptsStringDependentsAnswer guards against va_has_dependents
// (a text-typed question) silently resolving to false when its answer
// arrives as the string "true" rather than a native bool.
func TestVALookupAcceptsStringDependentsAnswer(t *testing.T) {
	m := &moduleconfig.Module{
		ID: "financial",
		Questions: []moduleconfig.Question{
			{ID: "va_rating", Type: moduleconfig.TypeNumeric, Label: "VA rating", Level: moduleconfig.LevelBasic},
			{ID: "va_has_dependents", Type: moduleconfig.TypeText, Label: "Has dependents", Level: moduleconfig.LevelBasic},
		},
		DerivedFields: []moduleconfig.DerivedField{
			{ID: "va_income", Kind: moduleconfig.DerivedVALookup, Inputs: []string{"va_rating", "va_has_dependents"}},
		},
	}
	var gotDeps bool
	rt := NewRuntime(stubVARates{amount: 1908.95, gotDeps: &gotDeps})
	state := NewState()
	state.Current["va_rating"] = 70.0
	state.Current["va_has_dependents"] = "true"

	result := rt.Evaluate(m, state)
	assert.True(t, gotDeps)
	assert.InDelta(t, 1908.95, result.DerivedFields["va_income"], 0.001)
}
