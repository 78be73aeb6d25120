// Package hours is the Hours Estimator (§4.4): a weighted BADL/IADL
// baseline, with an optional LLM refinement pass that can only replace the
// baseline band, never invent one outside the allowed set.
package hours

import (
	"context"

	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/llmclient"
)

// CognitiveLevel is the severity of cognitive impairment driving the
// baseline multiplier.
type CognitiveLevel string

const (
	CognitiveNone     CognitiveLevel = "none"
	CognitiveMild     CognitiveLevel = "mild"
	CognitiveModerate CognitiveLevel = "moderate"
	CognitiveSevere   CognitiveLevel = "severe"
)

const maxCognitiveMultiplier = 2.5

var cognitiveMultipliers = map[CognitiveLevel]float64{
	CognitiveNone:     1.0,
	CognitiveMild:     1.2,
	CognitiveModerate: 1.6,
	CognitiveSevere:   2.2,
}

// badlWeights are daily-hour weights per BADL task. Toileting is heaviest:
// it implies a caregiver must be available on short notice, not just the
// task time itself.
var badlWeights = map[string]float64{
	"toileting":    2.5,
	"continence":   1.3,
	"bathing":      1.5,
	"transferring": 1.2,
	"dressing":     1.0,
	"eating":       0.8,
}

var iadlWeights = map[string]float64{
	"medication_management": 0.5,
	"transportation":        0.7,
	"meal_prep":             0.8,
	"housekeeping":          0.6,
	"finances":              0.3,
}

const (
	overnightFloorHours = 16.0
	wanderingSurcharge  = 1.5
	aggressionSurcharge = 1.5
	sundowningSurcharge = 1.0
	highRiskMedHours    = 1.0
	medComplexityUnit   = 0.15
)

// Input is the portion of assessment state the estimator reads. It is
// assembled by the caller from the merged question/flag view, not read
// directly from a module.
type Input struct {
	BADLTasks            []string
	IADLTasks            []string
	Cognitive            CognitiveLevel
	Wandering            bool
	Aggression           bool
	Sundowning           bool
	MedicationComplexity float64
	HighRiskMedication   bool
	OvernightNeeded      bool
}

// Estimate is the estimate(state) contract result.
type Estimate struct {
	Band        string
	HoursScalar float64
	Confidence  float64
	Reasons     []string
	Source      string // "baseline" or "llm"
}

// Estimator computes the baseline and, when a client is configured, asks an
// LLM to refine the band.
type Estimator struct {
	Client          *llmclient.Client
	Enabled         bool
	ConfidenceFloor float64
}

// New builds an Estimator. confidenceFloor defaults to 0.5 when zero.
func New(client *llmclient.Client, enabled bool, confidenceFloor float64) *Estimator {
	if confidenceFloor <= 0 {
		confidenceFloor = 0.5
	}
	return &Estimator{Client: client, Enabled: enabled, ConfidenceFloor: confidenceFloor}
}

// Baseline runs the deterministic weighted algorithm (§4.4).
func Baseline(in Input) Estimate {
	var total float64
	var reasons []string

	var taskHours float64
	for _, t := range in.BADLTasks {
		taskHours += badlWeights[t]
	}
	for _, t := range in.IADLTasks {
		taskHours += iadlWeights[t]
	}
	if taskHours > 0 {
		reasons = append(reasons, "daily task support across BADL/IADL needs")
	}

	mult := cognitiveMultipliers[in.Cognitive]
	if mult == 0 {
		mult = cognitiveMultipliers[CognitiveNone]
	}
	if mult > maxCognitiveMultiplier {
		mult = maxCognitiveMultiplier
	}
	total = taskHours * mult
	if in.Cognitive == CognitiveModerate || in.Cognitive == CognitiveSevere {
		reasons = append(reasons, "cognitive impairment increases supervision need")
	}

	if in.Wandering {
		total += wanderingSurcharge
		reasons = append(reasons, "wandering risk requires additional monitoring")
	}
	if in.Aggression {
		total += aggressionSurcharge
		reasons = append(reasons, "aggressive behavior requires additional staffing")
	}
	if in.Sundowning {
		total += sundowningSurcharge
		reasons = append(reasons, "sundowning adds evening supervision hours")
	}

	if in.MedicationComplexity > 0 {
		total += in.MedicationComplexity * medComplexityUnit
	}
	if in.HighRiskMedication {
		total += highRiskMedHours
		reasons = append(reasons, "high-risk medication management (insulin/injections/monitoring)")
	}

	if in.OvernightNeeded {
		if total < overnightFloorHours {
			total = overnightFloorHours
		}
		reasons = append(reasons, "overnight supervision required")
	}

	band := bandOf(total)
	if len(reasons) == 0 {
		reasons = []string{"minimal support needs identified"}
	}

	return Estimate{
		Band:        string(band),
		HoursScalar: band.Scalar(),
		Confidence:  1.0,
		Reasons:     reasons,
		Source:      "baseline",
	}
}

func bandOf(totalHours float64) contracts.HoursBand {
	switch {
	case totalHours < 1:
		return contracts.HoursBandUnder1
	case totalHours <= 3:
		return contracts.HoursBand1to3
	case totalHours <= 8:
		return contracts.HoursBand4to8
	default:
		return contracts.HoursBand24
	}
}

// allowedBands is the fixed vocabulary an LLM refinement may choose from
// (§4.4 "must return one of the four band strings").
var allowedBands = []string{
	string(contracts.HoursBandUnder1),
	string(contracts.HoursBand1to3),
	string(contracts.HoursBand4to8),
	string(contracts.HoursBand24),
}

func refinementSchema() llmclient.Schema {
	return llmclient.Schema{Fields: map[string]llmclient.FieldSpec{
		"band":       {Kind: llmclient.KindString, Required: true, OneOf: allowedBands},
		"confidence": {Kind: llmclient.KindNumber, Required: true},
	}}
}

// Estimate runs the baseline, then optionally asks the LLM to refine it.
// Any failure in the refinement path — disabled, unavailable, timeout,
// malformed response, confidence under floor — silently keeps the baseline
// (§4.4 "the baseline band is used").
func (e *Estimator) Estimate(ctx context.Context, in Input, clinicalSummary string) Estimate {
	baseline := Baseline(in)
	if e == nil || !e.Enabled || e.Client == nil {
		return baseline
	}

	data, err := e.Client.Ask(ctx, hoursSystemPrompt, hoursUserPrompt(baseline, clinicalSummary), refinementSchema())
	if err != nil {
		return baseline
	}

	band, _ := data["band"].(string)
	confidence, _ := data["confidence"].(float64)
	if confidence < e.ConfidenceFloor || !isAllowedBand(band) {
		return baseline
	}

	refined := baseline
	refined.Band = band
	refined.HoursScalar = contracts.HoursBand(band).Scalar()
	refined.Confidence = confidence
	refined.Source = "llm"
	return refined
}

func isAllowedBand(band string) bool {
	for _, b := range allowedBands {
		if b == band {
			return true
		}
	}
	return false
}

const hoursSystemPrompt = "You estimate daily caregiving hours for an older adult from a clinical summary. " +
	"Reply with strict JSON: {\"band\": one of \"<1h\"|\"1-3h\"|\"4-8h\"|\"24h\", \"confidence\": number 0-1, \"reasons\": [2-3 short strings]}."

func hoursUserPrompt(baseline Estimate, clinicalSummary string) string {
	return "Clinical summary: " + clinicalSummary + "\nBaseline suggestion: " + baseline.Band
}
