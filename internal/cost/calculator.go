// Package cost is the Cost Calculator (§4.6): base tier cost × regional
// precedence × rule-driven add-ons, producing an ordered, reconciling
// breakdown.
package cost

import (
	"encoding/json"
	"os"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/region"
)

const daysPerMonth = 30.44

// AddonRule is one configuration-driven add-on (§6 "Add-on rules": ordered
// list of {predicate, amount_or_percent, label}). Percent, when true, means
// Amount is a fraction of the base (pre-regional) monthly cost rather than
// a fixed dollar figure.
type AddonRule struct {
	Label     string                 `json:"label"`
	Predicate moduleconfig.Predicate `json:"predicate"`
	Amount    float64                `json:"amount"`
	Percent   bool                   `json:"percent,omitempty"`
}

// TierRates holds the base monthly cost and, for in-home care, the hourly
// rate used when an hours_scalar is supplied.
type TierRates struct {
	MonthlyBase map[contracts.Tier]float64 `json:"monthly_base"`
	HourlyRate  float64                    `json:"hourly_rate"`
}

// LoadTierRates reads a TierRates table from a JSON file (config's
// modules.cost_file).
func LoadTierRates(path string) (TierRates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TierRates{}, err
	}
	var rates TierRates
	if err := json.Unmarshal(data, &rates); err != nil {
		return TierRates{}, err
	}
	return rates, nil
}

// LoadAddons reads an ordered add-on rule list from a JSON file.
func LoadAddons(path string) ([]AddonRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var addons []AddonRule
	if err := json.Unmarshal(data, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// AddonContext is the evaluation context for add-on predicates: flags,
// per-tier scores, cognitive level, medication complexity, ADL count, and a
// high-acuity indicator (§4.6 step 4).
type AddonContext struct {
	Flags           map[string]bool
	Scores          map[contracts.Tier]float64
	CognitiveLevel  float64
	MedComplexity   float64
	ADLCount        float64
	HighAcuity      bool
}

func (c AddonContext) predicateContext() moduleconfig.Context {
	answers := map[string]any{
		"cognitive_level": c.CognitiveLevel,
		"med_complexity":  c.MedComplexity,
		"adl_count":       c.ADLCount,
		"high_acuity":     c.HighAcuity,
	}
	for tier, score := range c.Scores {
		answers["score:"+string(tier)] = score
	}
	flagSet := map[string]bool{}
	for k, v := range c.Flags {
		flagSet[k] = v
	}
	if c.HighAcuity {
		flagSet["high_acuity"] = true
	}
	return moduleconfig.Context{Answers: answers, Flags: flagSet}
}

// Result is what compute(tier, region_input, addons_context, hours_scalar?)
// produces (§4.6 contract).
type Result struct {
	MonthlyBase     float64
	MonthlyAdjusted float64
	Annual          float64
	ThreeYear       float64
	FiveYear        float64
	Breakdown       []contracts.CostLineItem
	RegionName      string
	RegionMultiplier float64
	RegionPrecision region.Precision
}

// Calculator computes monthly and multi-year costs.
type Calculator struct {
	Rates  TierRates
	Region region.Table
	Addons []AddonRule
}

// NewCalculator builds a Calculator.
func NewCalculator(rates TierRates, regionTable region.Table, addons []AddonRule) *Calculator {
	return &Calculator{Rates: rates, Region: regionTable, Addons: addons}
}

// Compute runs the §4.6 algorithm. hoursScalar is only honored for
// contracts.TierInHome, per step 5.
func (c *Calculator) Compute(tier contracts.Tier, zipCode, state string, addonCtx AddonContext, hoursScalar *float64) Result {
	base := c.Rates.MonthlyBase[tier]
	resolved := c.Region.Resolve(zipCode, state)

	effectiveBase := base
	if tier == contracts.TierInHome && hoursScalar != nil && c.Rates.HourlyRate > 0 {
		effectiveBase = c.Rates.HourlyRate * (*hoursScalar) * daysPerMonth
	}

	breakdown := []contracts.CostLineItem{{Label: "Base (" + string(tier) + ")", Amount: round2(effectiveBase)}}

	regionalAdd := effectiveBase * (resolved.Multiplier - 1)
	if regionalAdd != 0 {
		breakdown = append(breakdown, contracts.CostLineItem{Label: "Regional adjustment (" + resolved.RegionName + ")", Amount: round2(regionalAdd)})
	}

	predCtx := addonCtx.predicateContext()
	for _, rule := range c.Addons {
		if !rule.Predicate.Evaluate(predCtx) {
			continue
		}
		amount := rule.Amount
		if rule.Percent {
			amount = effectiveBase * rule.Amount
		}
		breakdown = append(breakdown, contracts.CostLineItem{Label: rule.Label, Amount: round2(amount)})
	}

	// monthly_adjusted is the sum of the (already rounded) breakdown line
	// items, not an independently rounded running total, so the §4.6
	// invariant (sum(breakdown) ≈ monthly_adjusted within $0.01) holds
	// exactly rather than approximately.
	var adjusted float64
	for _, item := range breakdown {
		adjusted += item.Amount
	}
	adjusted = round2(adjusted)

	return Result{
		MonthlyBase:      round2(base),
		MonthlyAdjusted:  adjusted,
		Annual:           round2(adjusted * 12),
		ThreeYear:        round2(adjusted * 12 * 3),
		FiveYear:         round2(adjusted * 12 * 5),
		Breakdown:        breakdown,
		RegionName:       resolved.RegionName,
		RegionMultiplier: resolved.Multiplier,
		RegionPrecision:  resolved.Precision,
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// DefaultTierRates returns the bundled base costs and hourly rate used by
// the demo modules and the spec.md scenarios.
func DefaultTierRates() TierRates {
	return TierRates{
		MonthlyBase: map[contracts.Tier]float64{
			contracts.TierNoCareNeeded:         0,
			contracts.TierInHome:               3200,
			contracts.TierAssistedLiving:       5400,
			contracts.TierMemoryCare:           7200,
			contracts.TierMemoryCareHighAcuity: 9400,
		},
		HourlyRate: 32,
	}
}

// DefaultAddons returns a small declarative add-on rule set over the
// high_acuity, med_complexity and adl_count predicate fields (§4.6 step 4, §9 "the add-on
// list is declarative configuration, not hardcoded").
func DefaultAddons() []AddonRule {
	return []AddonRule{
		{
			Label:     "High-acuity care premium",
			Predicate: moduleconfig.Predicate{Field: "high_acuity", Op: moduleconfig.OpEquals, Value: true},
			Amount:    0.12,
			Percent:   true,
		},
		{
			Label:     "Medication management",
			Predicate: moduleconfig.Predicate{Field: "med_complexity", Op: moduleconfig.OpGT, Value: 2.0},
			Amount:    180,
		},
		{
			Label:     "Elevated ADL support",
			Predicate: moduleconfig.Predicate{Field: "adl_count", Op: moduleconfig.OpGT, Value: 3.0},
			Amount:    0.08,
			Percent:   true,
		},
	}
}
