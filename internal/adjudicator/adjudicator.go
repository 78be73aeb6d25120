// Package adjudicator is the Adjudicator (§4.5): LLM-first tier selection
// constrained to the allowed tier set, validated against a safety rule and
// a confidence floor, falling back to deterministic scoring on any
// rejection. Behavior gates run after adjudication, never before, so an
// LLM-accepted tier can still be raised by a gate.
package adjudicator

import (
	"context"
	"strconv"
	"time"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/llmclient"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/scoring"
)

const (
	DecisionLLMAccepted        = "llm_accepted"
	DecisionDeterministicFallback = "deterministic_fallback"
)

// Input is everything the adjudicator needs beyond the Scoring Engine's
// own result.
type Input struct {
	AllowedTiers          []contracts.Tier
	ScoringResult         scoring.Result
	ClinicalSummary       string
	SafetyCriticalFlagSet bool
	Flags                 []contracts.FlagRecord
	NextStep              contracts.NextStep
	BehaviorGates         []moduleconfig.BehaviorGate
	GateContext           moduleconfig.Context
}

// OutcomeLogger records which decision path was taken, for later review.
// Implemented by internal/adjudicator/outcomelog against sqlite; nil is a
// valid no-op.
type OutcomeLogger interface {
	LogDecision(ctx context.Context, rec DecisionRecord) error
}

// DecisionRecord is one adjudication outcome.
type DecisionRecord struct {
	Tier           contracts.Tier
	DecisionPath   string
	DecisionReason string
	Confidence     float64
	RuleSet        string
	Version        string
	Timestamp      time.Time
}

// Adjudicator ties the LLM client, the validation rules, and gate
// application together.
type Adjudicator struct {
	Client          *llmclient.Client
	Enabled         bool
	ConfidenceFloor float64
	RuleSet         string
	Version         string
	Logger          OutcomeLogger
}

// New builds an Adjudicator. confidenceFloor defaults to 0.5 when zero.
func New(client *llmclient.Client, enabled bool, confidenceFloor float64, ruleSet, version string, logger OutcomeLogger) *Adjudicator {
	if confidenceFloor <= 0 {
		confidenceFloor = 0.5
	}
	return &Adjudicator{
		Client:          client,
		Enabled:         enabled,
		ConfidenceFloor: confidenceFloor,
		RuleSet:         ruleSet,
		Version:         version,
		Logger:          logger,
	}
}

func allowedTierStrings(tiers []contracts.Tier) []string {
	out := make([]string, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, string(t))
	}
	return out
}

func adjudicationSchema(allowed []contracts.Tier) llmclient.Schema {
	return llmclient.Schema{Fields: map[string]llmclient.FieldSpec{
		"tier":       {Kind: llmclient.KindString, Required: true, OneOf: allowedTierStrings(allowed)},
		"confidence": {Kind: llmclient.KindNumber, Required: true},
	}}
}

// Adjudicate implements adjudicate(allowed_tiers, scoring_result, context) →
// CareRecommendation (§4.5).
func (a *Adjudicator) Adjudicate(ctx context.Context, in Input) contracts.CareRecommendation {
	now := time.Now()

	tier := in.ScoringResult.TopTier
	decisionPath := DecisionDeterministicFallback
	decisionReason := "LLM adjudication disabled or unavailable"
	confidence := in.ScoringResult.Confidence
	rationale := append([]string(nil), in.ScoringResult.Rationale...)

	if a.Enabled && a.Client != nil {
		llmTier, llmConfidence, accepted, reason := a.consultLLM(ctx, in)
		if accepted {
			tier = llmTier
			confidence = llmConfidence
			decisionPath = DecisionLLMAccepted
			decisionReason = reason
			rationale = append([]string{"LLM adjudication: " + reason}, rationale...)
		} else {
			decisionReason = reason
		}
	}

	if len(in.BehaviorGates) > 0 {
		gated, outcomes := scoring.ApplyGates(in.BehaviorGates, in.GateContext, tier)
		if gated != tier {
			tier = gated
			for _, o := range outcomes {
				rationale = append(rationale, "gate "+o.GateID+": "+o.Reason)
			}
		}
	}

	rec := contracts.CareRecommendation{
		Tier:           tier,
		TierScore:      in.ScoringResult.TotalScore,
		TierRankings:   in.ScoringResult.Rankings,
		Confidence:     confidence,
		Flags:          in.Flags,
		Rationale:      rationale,
		NextStep:       in.NextStep,
		GeneratedAt:    now,
		LastUpdated:    now,
		Version:        a.Version,
		RuleSet:        a.RuleSet,
		NeedsRefresh:   false,
		DecisionPath:   decisionPath,
		DecisionReason: decisionReason,
	}

	if a.Logger != nil {
		_ = a.Logger.LogDecision(ctx, DecisionRecord{
			Tier: tier, DecisionPath: decisionPath, DecisionReason: decisionReason,
			Confidence: confidence, RuleSet: a.RuleSet, Version: a.Version, Timestamp: now,
		})
	}

	return rec
}

// consultLLM runs the LLM-first path and its validation. accepted is false
// for any of: disabled provider, timeout, malformed response, tier outside
// the allowed set, confidence below floor, or the safety rule (a
// safety-critical flag set alongside a no_care_needed recommendation).
func (a *Adjudicator) consultLLM(ctx context.Context, in Input) (tier contracts.Tier, confidence float64, accepted bool, reason string) {
	data, err := a.Client.Ask(ctx, adjudicationSystemPrompt, adjudicationUserPrompt(in), adjudicationSchema(in.AllowedTiers))
	if err != nil {
		return "", 0, false, "LLM request failed or returned an invalid response"
	}

	tierStr, _ := data["tier"].(string)
	confidence, _ = data["confidence"].(float64)
	tier = contracts.Tier(tierStr)

	if confidence < a.ConfidenceFloor {
		return "", 0, false, "LLM confidence below floor"
	}
	if !tierAllowed(tier, in.AllowedTiers) {
		return "", 0, false, "LLM tier outside allowed set"
	}
	if tier == contracts.TierNoCareNeeded && in.SafetyCriticalFlagSet {
		return "", 0, false, "safety rule: no_care_needed rejected alongside a safety-critical flag"
	}

	return tier, confidence, true, "LLM-selected tier accepted"
}

func tierAllowed(tier contracts.Tier, allowed []contracts.Tier) bool {
	for _, t := range allowed {
		if t == tier {
			return true
		}
	}
	return false
}

const adjudicationSystemPrompt = "You select a care tier for an older adult from a fixed set of allowed tiers, " +
	"given a clinical summary and a deterministic scoring suggestion. Reply with strict JSON: " +
	"{\"tier\": one of the allowed tiers, \"confidence\": number 0-1, \"reasons\": [2-3 short strings]}."

func adjudicationUserPrompt(in Input) string {
	return "Allowed tiers: " + joinTiers(in.AllowedTiers) +
		"\nDeterministic suggestion: " + string(in.ScoringResult.TopTier) +
		"\nSummed score: " + formatFloat(in.ScoringResult.TotalScore) +
		"\nClinical summary: " + in.ClinicalSummary
}

func joinTiers(tiers []contracts.Tier) string {
	out := ""
	for i, t := range tiers {
		if i > 0 {
			out += ", "
		}
		out += string(t)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
