package scoring

import (
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/moduleconfig"
)

// GateOutcome records what a behavior gate did, for rationale/provenance.
type GateOutcome struct {
	GateID string
	Tier   contracts.Tier
	Reason string
}

// ApplyGates runs a module's behavior gates against ctx in declared order,
// starting from startTier. A gate with Floor raises the tier only if the
// floor is more severe than the current tier. A gate with Ceiling lowers
// only if AllowDowngrade is set and the ceiling is less severe. SetTier
// pins the tier outright and requires AllowDowngrade to move it down.
// Gates never lower a tier's severity unless AllowDowngrade is true (§4.3,
// §8 "Behavior gate monotonicity").
func ApplyGates(gates []moduleconfig.BehaviorGate, ctx moduleconfig.Context, startTier contracts.Tier) (contracts.Tier, []GateOutcome) {
	current := startTier
	var outcomes []GateOutcome

	for _, gate := range gates {
		if !gate.When.Evaluate(ctx) {
			continue
		}

		switch {
		case gate.Floor != "":
			floor := contracts.Tier(gate.Floor)
			if floor.Valid() && floor.Severity() > current.Severity() {
				current = floor
				outcomes = append(outcomes, GateOutcome{GateID: gate.ID, Tier: current, Reason: gate.Reason})
			}
		case gate.Ceiling != "":
			ceiling := contracts.Tier(gate.Ceiling)
			if ceiling.Valid() && gate.AllowDowngrade && ceiling.Severity() < current.Severity() {
				current = ceiling
				outcomes = append(outcomes, GateOutcome{GateID: gate.ID, Tier: current, Reason: gate.Reason})
			}
		case gate.SetTier != "":
			set := contracts.Tier(gate.SetTier)
			if !set.Valid() {
				continue
			}
			if set.Severity() > current.Severity() || gate.AllowDowngrade {
				current = set
				outcomes = append(outcomes, GateOutcome{GateID: gate.ID, Tier: current, Reason: gate.Reason})
			}
		}
	}

	return current, outcomes
}
