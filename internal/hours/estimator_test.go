package hours

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath/carecoord/internal/llmclient"
	"github.com/stretchr/testify/assert"
)

func TestBaselineMinimalNeedsBandsUnder1Hour(t *testing.T) {
	est := Baseline(Input{})
	assert.Equal(t, "<1h", est.Band)
	assert.Equal(t, 0.5, est.HoursScalar)
}

func TestBaselineOvernightFloorsAt24Hours(t *testing.T) {
	est := Baseline(Input{BADLTasks: []string{"toileting"}, OvernightNeeded: true})
	assert.Equal(t, "24h", est.Band)
	assert.Equal(t, 24.0, est.HoursScalar)
}

func TestBaselineSevereCognitiveImpairmentPushesBandUp(t *testing.T) {
	light := Baseline(Input{BADLTasks: []string{"bathing", "dressing"}})
	heavy := Baseline(Input{BADLTasks: []string{"bathing", "dressing"}, Cognitive: CognitiveSevere})
	assert.NotEqual(t, light.Band, heavy.Band)
}

func TestBaselineBehaviorSurchargesAddHours(t *testing.T) {
	plain := Baseline(Input{BADLTasks: []string{"bathing"}})
	withBehaviors := Baseline(Input{BADLTasks: []string{"bathing"}, Wandering: true, Aggression: true})
	assert.Greater(t, withBehaviors.HoursScalar, plain.HoursScalar-0.01)
}

func TestEstimateFallsBackToBaselineWhenLLMDisabled(t *testing.T) {
	e := New(nil, false, 0)
	out := e.Estimate(context.Background(), Input{BADLTasks: []string{"toileting"}}, "summary")
	assert.Equal(t, "baseline", out.Source)
}

func TestEstimateUsesRefinementWhenConfidenceMeetsFloor(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"band":"4-8h","confidence":0.9}`}
	client := llmclient.New(p, time.Second)
	e := New(client, true, 0.5)

	out := e.Estimate(context.Background(), Input{}, "summary")
	assert.Equal(t, "llm", out.Source)
	assert.Equal(t, "4-8h", out.Band)
}

func TestEstimateKeepsBaselineWhenConfidenceBelowFloor(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"band":"24h","confidence":0.2}`}
	client := llmclient.New(p, time.Second)
	e := New(client, true, 0.5)

	out := e.Estimate(context.Background(), Input{}, "summary")
	assert.Equal(t, "baseline", out.Source)
}

func TestEstimateKeepsBaselineOnTimeout(t *testing.T) {
	p := &llmclient.FixtureProvider{Content: `{"band":"24h","confidence":0.9}`, Delay: 20 * time.Millisecond}
	client := llmclient.New(p, time.Millisecond)
	e := New(client, true, 0.5)

	out := e.Estimate(context.Background(), Input{}, "summary")
	assert.Equal(t, "baseline", out.Source)
}
