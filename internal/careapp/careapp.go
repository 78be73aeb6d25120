// Package careapp is the Care module's end-to-end wiring (§2 control
// flow): the Assessment Runtime evaluates a module, the Scoring Engine
// bands the result into a tier, the Adjudicator reconciles that with an
// optional LLM suggestion and runs behavior gates last, and the resulting
// CareRecommendation is published to MCIP. This is the one place those
// four components are composed; each of them stays usable standalone
// because none of them import this package.
package careapp

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/brightpath/carecoord/internal/adjudicator"
	"github.com/brightpath/carecoord/internal/assessment"
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/flags"
	"github.com/brightpath/carecoord/internal/mcip"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/scoring"
)

// NextStepRouter maps a final tier to the downstream product it should
// point at. Every tier needs an entry; no_care_needed still routes to cost
// planning (§8 S3: "next_step still offers Cost Planner for planning").
type NextStepRouter map[contracts.Tier]contracts.NextStep

// DefaultNextSteps is the bundled routing table.
func DefaultNextSteps() NextStepRouter {
	return NextStepRouter{
		contracts.TierNoCareNeeded:         {Label: "Plan ahead with Cost Planner", Route: "cost_planner"},
		contracts.TierInHome:               {Label: "Estimate in-home care costs", Route: "cost_planner", Filter: "in_home"},
		contracts.TierAssistedLiving:       {Label: "Estimate assisted living costs", Route: "cost_planner", Filter: "assisted_living"},
		contracts.TierMemoryCare:           {Label: "Estimate memory care costs", Route: "cost_planner", Filter: "memory_care"},
		contracts.TierMemoryCareHighAcuity: {Label: "Estimate high-acuity memory care costs", Route: "cost_planner", Filter: "memory_care_high_acuity"},
	}
}

// App ties the Assessment Runtime, Scoring Engine, Flag Registry, and
// Adjudicator together for one module and publishes the result to a
// Coordinator.
type App struct {
	Module      *moduleconfig.Module
	Runtime     *assessment.Runtime
	Scoring     *scoring.Engine
	Adjudicator *adjudicator.Adjudicator
	Flags       *flags.Registry
	NextSteps   NextStepRouter
	MCIP        *mcip.Coordinator
}

// New builds an App. nextSteps may be nil to use DefaultNextSteps().
func New(module *moduleconfig.Module, runtime *assessment.Runtime, engine *scoring.Engine, adj *adjudicator.Adjudicator, registry *flags.Registry, nextSteps NextStepRouter, coordinator *mcip.Coordinator) *App {
	if nextSteps == nil {
		nextSteps = DefaultNextSteps()
	}
	return &App{Module: module, Runtime: runtime, Scoring: engine, Adjudicator: adj, Flags: registry, NextSteps: nextSteps, MCIP: coordinator}
}

// Run evaluates state against the module, scores it, adjudicates it, and
// publishes the resulting CareRecommendation to MCIP (§2, §4.2-§4.5).
func (a *App) Run(ctx context.Context, state *assessment.State) (contracts.CareRecommendation, error) {
	result := a.Runtime.Evaluate(a.Module, state)
	merged := state.Merged()

	scored, err := a.Scoring.Score(a.Module, merged, result.VisibleQuestions, result.Flags)
	if err != nil {
		return contracts.CareRecommendation{}, err
	}

	flagRecords, safetyCritical := a.flagRecords(result.Flags)

	in := adjudicator.Input{
		AllowedTiers:          contracts.Tiers,
		ScoringResult:         scored,
		ClinicalSummary:       clinicalSummary(a.Module, result),
		SafetyCriticalFlagSet: safetyCritical,
		Flags:                 flagRecords,
		BehaviorGates:         a.Module.Scoring.BehaviorGates,
		GateContext:           moduleconfig.Context{Answers: merged, Flags: result.Flags},
	}

	rec := a.Adjudicator.Adjudicate(ctx, in)
	rec.InputSnapshotID = uuid.NewString()
	rec.NextStep = a.NextSteps[rec.Tier]

	if a.MCIP != nil {
		if err := a.MCIP.Publish(mcip.ContractCareRecommendation, rec); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

// flagRecords converts raised flag names into display records via the Flag
// Registry, sorted for deterministic output, and reports whether any raised
// flag is safety-critical (category safety, or any flag of high severity) —
// the condition the Adjudicator's safety rule checks against a
// no_care_needed suggestion (§4.5).
func (a *App) flagRecords(raised map[string]bool) ([]contracts.FlagRecord, bool) {
	names := assessment.SortedFlags(raised)
	records := make([]contracts.FlagRecord, 0, len(names))
	var safetyCritical bool

	for _, name := range names {
		def, ok := a.Flags.Get(name)
		if !ok {
			continue
		}
		rec := contracts.FlagRecord{
			Name:        def.Name,
			Category:    string(def.Category),
			Severity:    string(def.Severity),
			Label:       def.Label,
			Description: def.Description,
		}
		if def.CTA != nil {
			rec.CTALabel = def.CTA.Label
			rec.CTARoute = def.CTA.Route
		}
		records = append(records, rec)

		if def.Category == flags.CategorySafety || def.Severity == flags.SeverityHigh {
			safetyCritical = true
		}
	}

	return records, safetyCritical
}

// clinicalSummary builds the short free-text context the Adjudicator and
// Hours Estimator pass to an LLM: counts of answered questions and the
// flags raised, never raw answer values the LLM doesn't need (§4.11 "never
// surfaces raw LLM text to the user" is the inverse direction, but the
// same minimalism applies to what we send it).
func clinicalSummary(m *moduleconfig.Module, result assessment.Result) string {
	summary := m.ID + ": "
	summary += "completeness " + percent(result.Completeness) + "; "
	flagNames := assessment.SortedFlags(result.Flags)
	if len(flagNames) == 0 {
		summary += "no flags raised"
		return summary
	}
	summary += "flags: "
	for i, f := range flagNames {
		if i > 0 {
			summary += ", "
		}
		summary += f
	}
	return summary
}

func percent(fraction float64) string {
	whole := int(fraction*100 + 0.5)
	return strconv.Itoa(whole) + "%"
}
