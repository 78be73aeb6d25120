// Package scoring is the Scoring Engine (§4.3): additive per-option/per-flag
// contributions summed onto a single severity axis, banded into a tier by
// declared thresholds, then adjusted by behavior gates that may only raise
// the tier unless explicitly allowed to lower it.
package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/flags"
	"github.com/brightpath/carecoord/internal/moduleconfig"
)

// ErrMissingThresholds is returned when a module does not declare a band
// for every one of the five tiers (§4.3 failure semantics).
var ErrMissingThresholds = errors.New("scoring: MissingThresholds")

// Contributor is one scored item, kept for rationale construction.
type Contributor struct {
	Label string
	Delta int
}

// Result is the Scoring Engine's output.
type Result struct {
	Rankings     []contracts.TierScore
	TopTier      contracts.Tier
	TotalScore   float64
	Confidence   float64
	Rationale    []string
	Contributors []Contributor
}

// Engine scores a module's answers and flags into a ranked tier list.
type Engine struct {
	Contradictions []flags.ContradictionPair
}

// NewEngine builds an Engine using the given contradiction pairs for the
// flag_coherence term (§4.3). Pass nil to use flags.DefaultContradictions().
func NewEngine(contradictions []flags.ContradictionPair) *Engine {
	if contradictions == nil {
		contradictions = flags.DefaultContradictions()
	}
	return &Engine{Contradictions: contradictions}
}

// Score implements the Scoring Engine contract: score(flags, answers) →
// {rankings, top_tier, confidence}.
func (e *Engine) Score(m *moduleconfig.Module, merged map[string]any, visible []moduleconfig.Question, raisedFlags map[string]bool) (Result, error) {
	if err := checkThresholds(m.Scoring.Thresholds); err != nil {
		return Result{}, err
	}

	total, contributors := e.sumContributions(m, merged, visible, raisedFlags)

	winner := bandTier(m.Scoring.Thresholds, total)
	rankings := rankTiers(m.Scoring.Thresholds, total, winner)

	specificity := specificityOf(visible, merged)
	answeredFraction := answeredFractionOf(visible, merged)
	coherence := e.flagCoherence(raisedFlags)
	confidence := clip01(0.5*answeredFraction + 0.3*specificity + 0.2*coherence)

	rationale := rationaleOf(contributors)

	return Result{
		Rankings:     rankings,
		TopTier:      winner,
		TotalScore:   total,
		Confidence:   confidence,
		Rationale:    rationale,
		Contributors: contributors,
	}, nil
}

func checkThresholds(thresholds map[string]moduleconfig.Band) error {
	for _, tier := range contracts.Tiers {
		if _, ok := thresholds[string(tier)]; !ok {
			return ErrMissingThresholds
		}
	}
	return nil
}

// sumContributions totals every triggered option score and flag
// contribution onto the single severity axis (§4.3 "Per-tier additive
// scoring" collapses to one axis here, which the tier thresholds then band).
func (e *Engine) sumContributions(m *moduleconfig.Module, merged map[string]any, visible []moduleconfig.Question, raisedFlags map[string]bool) (float64, []Contributor) {
	visibleIDs := make(map[string]bool, len(visible))
	for _, q := range visible {
		visibleIDs[q.ID] = true
	}

	var total float64
	var contributors []Contributor

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
				if opt.Value == sv && opt.Score != 0 {
					total += float64(opt.Score)
					contributors = append(contributors, Contributor{Label: q.Label + ": " + opt.Label, Delta: opt.Score})
				}
			}
		case moduleconfig.TypeMultiSelect:
			selected := toStringSlice(val)
			for _, opt := range q.Options {
				if containsStr(selected, opt.Value) && opt.Score != 0 {
					total += float64(opt.Score)
					contributors = append(contributors, Contributor{Label: q.Label + ": " + opt.Label, Delta: opt.Score})
				}
			}
		}
	}

	for flagName, on := range raisedFlags {
		if !on {
			continue
		}
		if delta, ok := m.Scoring.FlagContributions[flagName]; ok && delta != 0 {
			total += float64(delta)
			contributors = append(contributors, Contributor{Label: "flag: " + flagName, Delta: delta})
		}
	}

	return total, contributors
}

func bandTier(thresholds map[string]moduleconfig.Band, score float64) contracts.Tier {
	var candidates []contracts.Tier
	for _, tier := range contracts.Tiers {
		if thresholds[string(tier)].Contains(score) {
			candidates = append(candidates, tier)
		}
	}
	if len(candidates) == 0 {
		// Score exceeds every band's upper bound or is negative; fall back
		// to the highest-severity tier above, or the lowest below.
		if score < 0 {
			return contracts.Tiers[0]
		}
		return contracts.Tiers[len(contracts.Tiers)-1]
	}
	// Ties break by severity (higher-acuity tier wins), then declared order
	// — Tiers is already declared in ascending severity order, so the last
	// candidate is both the highest severity and the latest-declared.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Severity() < candidates[j].Severity()
	})
	return candidates[len(candidates)-1]
}

// rankTiers orders all five tiers for tier_rankings: the winner first, the
// rest by how close the summed score sits to their band (0 = inside the
// band, negative = distance to the nearest edge). This is the engine's
// resolution of the single-axis-score-vs-five-tier-scores question noted
// as ambiguous in spec.md §9.
func rankTiers(thresholds map[string]moduleconfig.Band, score float64, winner contracts.Tier) []contracts.TierScore {
	out := make([]contracts.TierScore, 0, len(contracts.Tiers))
	for _, tier := range contracts.Tiers {
		out = append(out, contracts.TierScore{Tier: tier, Score: fitScore(thresholds[string(tier)], score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Tier == winner {
			return true
		}
		if out[j].Tier == winner {
			return false
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func fitScore(band moduleconfig.Band, score float64) float64 {
	if band.Contains(score) {
		return 0
	}
	if score < float64(band.Min) {
		return score - float64(band.Min)
	}
	if band.Max != nil {
		return float64(*band.Max) - score
	}
	return 0
}

func specificityOf(visible []moduleconfig.Question, merged map[string]any) float64 {
	var considered, specific int
	for _, q := range visible {
		val, ok := merged[q.ID]
		if !ok {
			continue
		}
		considered++
		if !isDefaultish(val) {
			specific++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(specific) / float64(considered)
}

func isDefaultish(val any) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	switch s {
	case "not_sure", "unsure", "unknown", "":
		return true
	default:
		return false
	}
}

func answeredFractionOf(visible []moduleconfig.Question, merged map[string]any) float64 {
	var required, answered int
	for _, q := range visible {
		if !q.Required {
			continue
		}
		required++
		if _, ok := merged[q.ID]; ok {
			answered++
		}
	}
	if required == 0 {
		return 1
	}
	return float64(answered) / float64(required)
}

// flagCoherence penalizes contradictory flag combinations (§4.3).
func (e *Engine) flagCoherence(raisedFlags map[string]bool) float64 {
	if len(e.Contradictions) == 0 {
		return 1
	}
	var present int
	for _, pair := range e.Contradictions {
		if raisedFlags[pair.A] && raisedFlags[pair.B] {
			present++
		}
	}
	return 1 - float64(present)/float64(len(e.Contradictions))
}

func rationaleOf(contributors []Contributor) []string {
	sorted := append([]Contributor(nil), contributors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(float64(sorted[i].Delta)) > math.Abs(float64(sorted[j].Delta))
	})
	n := len(sorted)
	if n > 4 {
		n = 4
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[i].Label)
	}
	return out
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
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

func containsStr(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
