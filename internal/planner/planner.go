// Package planner is the Cost Planner: the product that subscribes to a
// published CareRecommendation and turns it into a FinancialProfile by
// composing the Hours Estimator, the Cost Calculator, the Regional
// Precedence Resolver (via Cost Calculator), and the Aggregate/Detail Field
// Engine for the money sections (§2 control flow, §3 FinancialProfile).
//
// Like careapp, this package only composes the lower components; none of
// them import it.
package planner

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/brightpath/carecoord/internal/aggregate"
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/cost"
	"github.com/brightpath/carecoord/internal/hours"
	"github.com/brightpath/carecoord/internal/mcip"
)

// AssetCategory is one detail-backed money category feeding total_assets:
// Liquid, Investments, Retirement, Real Estate, or Life Insurance (§3
// FinancialProfile "sum of detail-level asset fields across ... categories").
type AssetCategory struct {
	Name  string
	Field *aggregate.Field
}

// DebtCategory is one detail-backed money category feeding total_debt.
type DebtCategory struct {
	Name  string
	Field *aggregate.Field
}

// Input is everything the Cost Planner needs beyond the published
// CareRecommendation it reacts to.
type Input struct {
	CareRecommendation contracts.CareRecommendation

	// ZipCode/State locate the regional multiplier (§4.7).
	ZipCode string
	State   string

	// MonthlyIncome is the sum of detail-level income sources — the
	// Assessment Runtime's total_monthly_income derived field, never a
	// Basic-mode aggregate (§3 invariant).
	MonthlyIncome float64

	Assets []AssetCategory
	Debts  []DebtCategory

	HoursInput      hours.Input
	ClinicalSummary string

	// CognitiveLevel/MedComplexity/ADLCount feed the add-on predicate
	// context (§4.6 step 4); high_acuity is always derived from
	// CareRecommendation.Tier == memory_care_high_acuity.
	CognitiveLevel float64
	MedComplexity  float64
	ADLCount       float64
}

// Planner composes the Hours Estimator and Cost Calculator into a
// FinancialProfile and publishes it to MCIP.
type Planner struct {
	Hours *hours.Estimator
	Cost  *cost.Calculator
	MCIP  *mcip.Coordinator
}

// New builds a Planner.
func New(hoursEstimator *hours.Estimator, costCalc *cost.Calculator, coordinator *mcip.Coordinator) *Planner {
	return &Planner{Hours: hoursEstimator, Cost: costCalc, MCIP: coordinator}
}

// Plan implements the Cost Planner's half of the §2 control flow: estimate
// hours, compute cost, total the detail-only asset/debt categories, and
// publish the resulting FinancialProfile.
func (p *Planner) Plan(ctx context.Context, in Input) contracts.FinancialProfile {
	hoursEstimate := p.Hours.Estimate(ctx, in.HoursInput, in.ClinicalSummary)

	var hoursScalar *float64
	if in.CareRecommendation.Tier == contracts.TierInHome {
		scalar := hoursEstimate.HoursScalar
		hoursScalar = &scalar
	}

	addonCtx := p.addonContext(in)
	costResult := p.Cost.Compute(in.CareRecommendation.Tier, in.ZipCode, in.State, addonCtx, hoursScalar)

	totalAssets := sumCategories(in.Assets, func(c AssetCategory) *aggregate.Field { return c.Field })
	totalDebt := sumDebts(in.Debts)
	netWorth := totalAssets - totalDebt

	monthlyGap := in.MonthlyIncome - costResult.MonthlyAdjusted
	runway := runwayMonths(totalAssets, monthlyGap)

	profile := contracts.FinancialProfile{
		MonthlyIncome: round2(in.MonthlyIncome),
		TotalAssets:   round2(totalAssets),
		TotalDebt:     round2(totalDebt),
		NetWorth:      round2(netWorth),

		EstimatedMonthlyCost: costResult.MonthlyAdjusted,
		MonthlyGap:           round2(monthlyGap),
		RunwayMonths:         runway,

		CareTier:         in.CareRecommendation.Tier,
		RegionName:       costResult.RegionName,
		RegionMultiplier: costResult.RegionMultiplier,
		RegionPrecision:  string(costResult.RegionPrecision),

		CostBreakdown: costResult.Breakdown,

		HoursPerDay: hoursEstimate.HoursScalar,
		HoursBand:   contracts.HoursBand(hoursEstimate.Band),

		InputSnapshotID: uuid.NewString(),
	}

	if p.MCIP != nil {
		_ = p.MCIP.Publish(mcip.ContractFinancialProfile, profile)
	}

	return profile
}

func (p *Planner) addonContext(in Input) cost.AddonContext {
	flagSet := make(map[string]bool, len(in.CareRecommendation.Flags))
	for _, f := range in.CareRecommendation.Flags {
		flagSet[f.Name] = true
	}

	scores := make(map[contracts.Tier]float64, len(in.CareRecommendation.TierRankings))
	for _, ts := range in.CareRecommendation.TierRankings {
		scores[ts.Tier] = ts.Score
	}

	return cost.AddonContext{
		Flags:          flagSet,
		Scores:         scores,
		CognitiveLevel: in.CognitiveLevel,
		MedComplexity:  in.MedComplexity,
		ADLCount:       in.ADLCount,
		HighAcuity:     in.CareRecommendation.Tier == contracts.TierMemoryCareHighAcuity,
	}
}

// sumCategories totals Allocated() — never Entered or Unallocated — across
// every category (§4.8 hard rule).
func sumCategories(cats []AssetCategory, get func(AssetCategory) *aggregate.Field) float64 {
	var total float64
	for _, c := range cats {
		if f := get(c); f != nil {
			total += f.Allocated()
		}
	}
	return total
}

func sumDebts(cats []DebtCategory) float64 {
	var total float64
	for _, c := range cats {
		if c.Field != nil {
			total += c.Field.Allocated()
		}
	}
	return total
}

// runwayMonths is how long totalAssets covers a negative monthly gap.
// A non-negative gap (income covers cost) has no depletion date.
func runwayMonths(totalAssets, monthlyGap float64) float64 {
	if monthlyGap >= 0 {
		return math.Inf(1)
	}
	if totalAssets <= 0 {
		return 0
	}
	return round2(totalAssets / -monthlyGap)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
