package moduleconfig

import "fmt"

// PredicateOp is a comparison operator a Predicate applies to a field.
type PredicateOp string

const (
	OpEquals    PredicateOp = "equals"
	OpNotEquals PredicateOp = "not_equals"
	OpIn        PredicateOp = "in"
	OpGT        PredicateOp = "gt"
	OpLT        PredicateOp = "lt"
	OpExists    PredicateOp = "exists"
)

// Predicate is the shared condition language for visible_if, behavior
// gates, and cost add-on rules: a leaf compares a field or a flag against a
// value, or an internal node combines child predicates with All/Any.
//
// Field addresses an answer, a derived field, or (in the add-on-rule
// context) a synthetic key such as "score:in_home", "cognitive_level",
// "med_complexity", "adl_count", or "high_acuity" — see internal/cost.
type Predicate struct {
	Field string      `json:"field,omitempty"`
	Flag  string      `json:"flag,omitempty"`
	Op    PredicateOp `json:"op,omitempty"`
	Value any         `json:"value,omitempty"`

	All []Predicate `json:"all,omitempty"`
	Any []Predicate `json:"any,omitempty"`
}

// Context is the merged view a Predicate evaluates against: current answers
// (current-render values already merged over persisted state by the
// Assessment Runtime) and the flags raised so far.
type Context struct {
	Answers map[string]any
	Flags   map[string]bool
}

// Evaluate applies the predicate against ctx. An empty Predicate (no Field,
// no Flag, no All/Any) evaluates true, matching "no restriction".
func (p Predicate) Evaluate(ctx Context) bool {
	if len(p.All) > 0 {
		for _, child := range p.All {
			if !child.Evaluate(ctx) {
				return false
			}
		}
		return true
	}
	if len(p.Any) > 0 {
		for _, child := range p.Any {
			if child.Evaluate(ctx) {
				return true
			}
		}
		return false
	}
	if p.Flag != "" {
		return ctx.Flags[p.Flag]
	}
	if p.Field == "" {
		return true
	}

	val, present := ctx.Answers[p.Field]
	switch p.Op {
	case OpExists, "":
		return present
	case OpEquals:
		return present && equalValue(val, p.Value)
	case OpNotEquals:
		return !present || !equalValue(val, p.Value)
	case OpIn:
		return present && valueIn(val, p.Value)
	case OpGT:
		a, ok1 := asFloat(val)
		b, ok2 := asFloat(p.Value)
		return present && ok1 && ok2 && a > b
	case OpLT:
		a, ok1 := asFloat(val)
		b, ok2 := asFloat(p.Value)
		return present && ok1 && ok2 && a < b
	default:
		return false
	}
}

func equalValue(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func valueIn(val, list any) bool {
	items, ok := list.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if equalValue(val, item) {
			return true
		}
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ReferencedFields returns every field this predicate (and its children)
// compares against, used by the loader to detect dangling visible_if
// references.
func (p Predicate) ReferencedFields() []string {
	var out []string
	if p.Field != "" {
		out = append(out, p.Field)
	}
	for _, c := range p.All {
		out = append(out, c.ReferencedFields()...)
	}
	for _, c := range p.Any {
		out = append(out, c.ReferencedFields()...)
	}
	return out
}

// ReferencedFlags returns every flag name this predicate (and its children)
// reference, used by the loader to detect undeclared flags.
func (p Predicate) ReferencedFlags() []string {
	var out []string
	if p.Flag != "" {
		out = append(out, p.Flag)
	}
	for _, c := range p.All {
		out = append(out, c.ReferencedFlags()...)
	}
	for _, c := range p.Any {
		out = append(out, c.ReferencedFlags()...)
	}
	return out
}
