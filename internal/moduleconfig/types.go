// Package moduleconfig is the Configuration Loader (§4.1): it reads
// per-module JSON (questions, scoring rules, visibility, flags, derived
// fields) and validates it, failing with a distinct error kind per
// validation class. It follows the teacher's internal/eval/registry_loader.go
// pattern — decoded once into the domain structs below, validated, and
// cached — but over encoding/json rather than go:embed YAML, since
// module definitions are data an operator edits and hot-reloads, not a
// binary-baked capability table.
package moduleconfig

// QuestionType is one of the six question kinds the Assessment Runtime
// knows how to render and score.
type QuestionType string

const (
	TypeSingleSelect QuestionType = "single-select"
	TypeMultiSelect  QuestionType = "multi-select"
	TypeNumeric      QuestionType = "numeric"
	TypeCurrency     QuestionType = "currency"
	TypeText         QuestionType = "text"
	TypeDerived      QuestionType = "derived"
)

// Level is the Basic/Advanced disclosure level a question belongs to.
type Level string

const (
	LevelBasic    Level = "basic"
	LevelAdvanced Level = "advanced"
)

// Option is one selectable value of a single/multi-select question. Option
// comparisons are value-based: Value is what predicates and scoring match
// against, Label is display text and is never compared.
type Option struct {
	Value string   `json:"value"`
	Label string   `json:"label"`
	Flags []string `json:"flags,omitempty"`
	Score int      `json:"score,omitempty"`
}

// Question is a single assessment question.
type Question struct {
	ID         string       `json:"id"`
	Type       QuestionType `json:"type"`
	Label      string       `json:"label"`
	Help       string       `json:"help,omitempty"`
	Options    []Option     `json:"options,omitempty"`
	VisibleIf  *Predicate   `json:"visible_if,omitempty"`
	Level      Level        `json:"level"`
	Required   bool         `json:"required,omitempty"`
	Default    any          `json:"default,omitempty"`
	Min        *float64     `json:"min,omitempty"`
	Max        *float64     `json:"max,omitempty"`
	ReadOnly   bool         `json:"readonly,omitempty"`
}

// Band is an inclusive score range [Min, Max] used for tier thresholds.
// Max == nil means unbounded above.
type Band struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score float64) bool {
	if score < float64(b.Min) {
		return false
	}
	if b.Max == nil {
		return true
	}
	return score <= float64(*b.Max)
}

// BehaviorGate overrides or floors the winning tier after scoring (§4.3).
type BehaviorGate struct {
	ID             string     `json:"id"`
	When           Predicate  `json:"when"`
	Floor          string     `json:"floor,omitempty"`
	Ceiling        string     `json:"ceiling,omitempty"`
	SetTier        string     `json:"set_tier,omitempty"`
	AllowDowngrade bool       `json:"allow_downgrade,omitempty"`
	Reason         string     `json:"reason"`
}

// ScoringConfig declares the additive scoring rules for a module: per-tier
// thresholds on a single summed score, and the integer contribution each
// flag makes to that sum (option contributions live on the option itself).
type ScoringConfig struct {
	Thresholds         map[string]Band `json:"thresholds"`
	FlagContributions  map[string]int  `json:"flag_contributions"`
	BehaviorGates      []BehaviorGate  `json:"behavior_gates"`
}

// DerivedFieldKind is how a derived field's value is computed.
type DerivedFieldKind string

const (
	DerivedSum       DerivedFieldKind = "sum"
	DerivedConst     DerivedFieldKind = "const"
	DerivedVALookup  DerivedFieldKind = "va_income_lookup"
)

// DerivedField is a formula over answers, computed after all visible
// questions resolve, in declared order (§4.2).
type DerivedField struct {
	ID     string           `json:"id"`
	Kind   DerivedFieldKind `json:"kind"`
	Inputs []string         `json:"inputs,omitempty"`
	Value  float64          `json:"value,omitempty"` // for kind == const
}

// Module is a named set of questions plus scoring, gates, flags, and derived
// fields (§3 Module).
type Module struct {
	ID              string          `json:"id"`
	Questions       []Question      `json:"questions"`
	Scoring         ScoringConfig   `json:"scoring"`
	FlagsEmitted    []string        `json:"flags_emitted"`
	DerivedFields   []DerivedField  `json:"derived_fields"`
	Contradictions  [][2]string     `json:"contradictions,omitempty"`
	OutputContract  []string        `json:"output_contract,omitempty"`
}

// QuestionByID returns the question with the given id, if present.
func (m *Module) QuestionByID(id string) (*Question, bool) {
	for i := range m.Questions {
		if m.Questions[i].ID == id {
			return &m.Questions[i], true
		}
	}
	return nil, false
}
