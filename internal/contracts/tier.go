// Package contracts defines the typed records MCIP publishes and consumers
// read back: CareRecommendation, FinancialProfile, and JourneyState.
package contracts

import "time"

// Tier is one of the five care recommendations.
type Tier string

const (
	TierNoCareNeeded           Tier = "no_care_needed"
	TierInHome                 Tier = "in_home"
	TierAssistedLiving         Tier = "assisted_living"
	TierMemoryCare             Tier = "memory_care"
	TierMemoryCareHighAcuity   Tier = "memory_care_high_acuity"
)

// Tiers lists all five tiers in declared severity order, ascending.
// Callers that need a stable iteration or a tie-break order should use this
// slice rather than re-deriving it.
var Tiers = []Tier{
	TierNoCareNeeded,
	TierInHome,
	TierAssistedLiving,
	TierMemoryCare,
	TierMemoryCareHighAcuity,
}

// Severity returns the tier's rank in Tiers, higher meaning more acute.
// Unknown tiers rank below TierNoCareNeeded so they never win a tie-break.
func (t Tier) Severity() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is one of the five declared tiers.
func (t Tier) Valid() bool {
	return t.Severity() >= 0
}

// HoursBand is one of the four care-hours bands the Hours Estimator emits.
type HoursBand string

const (
	HoursBandUnder1  HoursBand = "<1h"
	HoursBand1to3    HoursBand = "1-3h"
	HoursBand4to8    HoursBand = "4-8h"
	HoursBand24      HoursBand = "24h"
)

// Scalar returns the daily-hours scalar downstream cost logic uses for a band.
func (b HoursBand) Scalar() float64 {
	switch b {
	case HoursBandUnder1:
		return 0.5
	case HoursBand1to3:
		return 2.0
	case HoursBand4to8:
		return 6.0
	case HoursBand24:
		return 24.0
	default:
		return 0
	}
}

// TierScore is one entry of a CareRecommendation's tier_rankings.
type TierScore struct {
	Tier  Tier    `json:"tier"`
	Score float64 `json:"score"`
}

// FlagRecord is a single emitted flag as surfaced on a CareRecommendation.
type FlagRecord struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	CTALabel    string `json:"cta_label,omitempty"`
	CTARoute    string `json:"cta_route,omitempty"`
}

// NextStep points the user at the recommended downstream product.
type NextStep struct {
	Label  string `json:"label"`
	Route  string `json:"route"`
	Filter string `json:"filter,omitempty"`
}

// CareRecommendation is the contract the Scoring Engine / Adjudicator publish
// to MCIP once a Care module completes.
type CareRecommendation struct {
	Tier            Tier         `json:"tier"`
	TierScore       float64      `json:"tier_score"`
	TierRankings    []TierScore  `json:"tier_rankings"`
	Confidence      float64      `json:"confidence"`
	Flags           []FlagRecord `json:"flags"`
	Rationale       []string     `json:"rationale"`
	NextStep        NextStep     `json:"next_step"`
	GeneratedAt     time.Time    `json:"generated_at"`
	LastUpdated     time.Time    `json:"last_updated"`
	Version         string       `json:"version"`
	RuleSet         string       `json:"rule_set"`
	InputSnapshotID string       `json:"input_snapshot_id"`
	NeedsRefresh    bool         `json:"needs_refresh"`

	// Provenance: whether the final tier came from an LLM-accepted
	// adjudication or the deterministic fallback, and why.
	DecisionPath   string `json:"decision_path"`
	DecisionReason string `json:"decision_reason,omitempty"`
}

// CostLineItem is one ordered entry of a FinancialProfile's cost_breakdown.
type CostLineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// FinancialProfile is the contract the Cost Planner publishes after
// consuming a CareRecommendation.
type FinancialProfile struct {
	MonthlyIncome float64 `json:"monthly_income"`
	TotalAssets   float64 `json:"total_assets"`
	TotalDebt     float64 `json:"total_debt"`
	NetWorth      float64 `json:"net_worth"`

	EstimatedMonthlyCost float64 `json:"estimated_monthly_cost"`
	MonthlyGap           float64 `json:"monthly_gap"`
	RunwayMonths         float64 `json:"runway_months"`

	CareTier        Tier    `json:"care_tier"`
	RegionName      string  `json:"region_name"`
	RegionMultiplier float64 `json:"region_multiplier"`
	RegionPrecision string  `json:"region_precision"`

	CostBreakdown []CostLineItem `json:"cost_breakdown"`

	HoursPerDay float64   `json:"hours_per_day"`
	HoursBand   HoursBand `json:"hours_band"`

	LastUpdated     time.Time `json:"last_updated"`
	InputSnapshotID string    `json:"input_snapshot_id"`
}

// JourneyState is the contract MCIP derives from published completions.
type JourneyState struct {
	CurrentHub        string          `json:"current_hub"`
	CompletedProducts map[string]bool `json:"completed_products"`
	UnlockedProducts  map[string]bool `json:"unlocked_products"`
	RecommendedNext   string          `json:"recommended_next"`
	LastUpdated       time.Time       `json:"last_updated"`
}
