package assessment

import (
	"sort"
	"strconv"

	"github.com/brightpath/carecoord/internal/moduleconfig"
)

// VARateTable resolves a VA disability rating into a monthly amount, used
// by the "va_income_lookup" derived-field kind (§6 "VA disability rate
// table").
type VARateTable interface {
	Lookup(ratingPercent int, hasDependents bool) (float64, bool)
}

// Result is what evaluating a module produces: the questions currently
// visible, the computed derived fields, the flags raised, and how complete
// the required-question set is.
type Result struct {
	VisibleQuestions []moduleconfig.Question
	DerivedFields    map[string]float64
	Flags            map[string]bool
	Completeness     float64
}

// Runtime evaluates modules against a merged answer view.
type Runtime struct {
	VARates VARateTable
}

// NewRuntime builds a Runtime. va may be nil if no module uses va_income_lookup.
func NewRuntime(va VARateTable) *Runtime {
	return &Runtime{VARates: va}
}

// Evaluate resolves visibility, derived fields, flags, and completeness for
// m against state's merged view (§4.2 contract).
func (r *Runtime) Evaluate(m *moduleconfig.Module, state *State) Result {
	merged := state.Merged()

	visible := r.visibleQuestions(m, merged)

	flagCtx := moduleconfig.Context{Answers: merged, Flags: map[string]bool{}}
	flagSet := r.flagsFromOptions(m, merged, visible)
	flagCtx.Flags = flagSet

	derived := r.derivedFields(m, merged, flagCtx)
	for k, v := range derived {
		merged[k] = v
	}

	completeness := completenessOf(visible, merged)

	return Result{
		VisibleQuestions: visible,
		DerivedFields:    derived,
		Flags:            flagSet,
		Completeness:     completeness,
	}
}

// visibleQuestions resolves each question's visible_if against the merged
// view. Questions are evaluated in declared order; a question's own
// visibility never depends on questions declared after it in this
// implementation, matching how the bundled modules are authored.
func (r *Runtime) visibleQuestions(m *moduleconfig.Module, merged map[string]any) []moduleconfig.Question {
	ctx := moduleconfig.Context{Answers: merged}
	visible := make([]moduleconfig.Question, 0, len(m.Questions))
	for _, q := range m.Questions {
		if q.VisibleIf == nil || q.VisibleIf.Evaluate(ctx) {
			visible = append(visible, q)
		}
	}
	return visible
}

// flagsFromOptions raises every flag attached to a currently selected
// option on a currently visible question (§4.2 "Flag emission").
func (r *Runtime) flagsFromOptions(m *moduleconfig.Module, merged map[string]any, visible []moduleconfig.Question) map[string]bool {
	visibleIDs := make(map[string]bool, len(visible))
	for _, q := range visible {
		visibleIDs[q.ID] = true
	}

	flagSet := make(map[string]bool)
	for _, q := range m.Questions {
		if !visibleIDs[q.ID] {
			continue
		}
		val, ok := merged[q.ID]
		if !ok {
			continue
		}
		switch q.Type {
		case moduleconfig.TypeSingleSelect:
			sv, _ := val.(string)
			for _, opt := range q.Options {
				if opt.Value == sv {
					for _, f := range opt.Flags {
						flagSet[f] = true
					}
				}
			}
		case moduleconfig.TypeMultiSelect:
			selected := toStringSlice(val)
			for _, opt := range q.Options {
				if contains(selected, opt.Value) {
					for _, f := range opt.Flags {
						flagSet[f] = true
					}
				}
			}
		}
	}
	return flagSet
}

// derivedFields computes each derived field in declared order, feeding
// earlier results to later formulas (§4.2 "Computed in declared order").
func (r *Runtime) derivedFields(m *moduleconfig.Module, merged map[string]any, ctx moduleconfig.Context) map[string]float64 {
	values := make(map[string]float64, len(m.DerivedFields))
	for _, df := range m.DerivedFields {
		switch df.Kind {
		case moduleconfig.DerivedConst:
			values[df.ID] = df.Value
		case moduleconfig.DerivedSum:
			var total float64
			for _, input := range df.Inputs {
				if v, ok := values[input]; ok {
					total += v
					continue
				}
				if v, ok := numericAnswer(merged[input]); ok {
					total += v
				}
			}
			values[df.ID] = total
		case moduleconfig.DerivedVALookup:
			if r.VARates == nil || len(df.Inputs) < 2 {
				values[df.ID] = 0
				continue
			}
			ratingVal, _ := numericAnswer(merged[df.Inputs[0]])
			hasDeps := boolAnswer(merged[df.Inputs[1]])
			amount, _ := r.VARates.Lookup(int(ratingVal), hasDeps)
			values[df.ID] = amount
		}
		merged[df.ID] = values[df.ID]
	}
	return values
}

// completenessOf is the fraction of required, currently-visible questions
// that have a non-default answer (§4.2).
func completenessOf(visible []moduleconfig.Question, merged map[string]any) float64 {
	var required, answered int
	for _, q := range visible {
		if !q.Required {
			continue
		}
		required++
		val, ok := merged[q.ID]
		if !ok {
			continue
		}
		if q.Default != nil && equalAny(val, q.Default) {
			continue
		}
		answered++
	}
	if required == 0 {
		return 1
	}
	return float64(answered) / float64(required)
}

func numericAnswer(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// boolAnswer accepts both a native bool (selects/derived logic) and the
// "true"/"false" string a text-typed question like va_has_dependents
// stores, so a free-text answer doesn't silently resolve to false.
func boolAnswer(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	}
	return false
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func equalAny(a, b any) bool {
	af, aok := numericAnswer(a)
	bf, bok := numericAnswer(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

// SortedFlags returns the raised flags as a stably ordered slice, handy for
// deterministic rationale/log output.
func SortedFlags(flagSet map[string]bool) []string {
	out := make([]string, 0, len(flagSet))
	for f, on := range flagSet {
		if on {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
