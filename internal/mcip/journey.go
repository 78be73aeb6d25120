package mcip

import "github.com/brightpath/carecoord/internal/contracts"

// UnlockGraph declares, per product key, the set of other product keys
// that must be complete before it unlocks. Order is the declared
// traversal order used to pick recommended_next deterministically.
type UnlockGraph struct {
	Order         []string
	Prerequisites map[string][]string
}

// DefaultUnlockGraph is the bundled product journey: Care gates Cost
// Planning, Cost Planning gates the Provider Directory, and the Provider
// Directory has no further gate.
func DefaultUnlockGraph() UnlockGraph {
	return UnlockGraph{
		Order: []string{"care_assessment", "cost_planner", "provider_directory"},
		Prerequisites: map[string][]string{
			"care_assessment":    {},
			"cost_planner":       {"care_assessment"},
			"provider_directory": {"cost_planner"},
		},
	}
}

// JourneyState computes the §3 JourneyState invariant: a product is
// unlocked only if every declared prerequisite is complete. recommended_next
// is the first unlocked, not-yet-completed product in declared order.
func (g UnlockGraph) JourneyState(currentHub string, completed map[string]bool) contracts.JourneyState {
	if completed == nil {
		completed = map[string]bool{}
	}

	unlocked := make(map[string]bool, len(g.Order))
	for _, product := range g.Order {
		unlocked[product] = g.prerequisitesMet(product, completed)
	}

	var recommended string
	for _, product := range g.Order {
		if unlocked[product] && !completed[product] {
			recommended = product
			break
		}
	}

	return contracts.JourneyState{
		CurrentHub:        currentHub,
		CompletedProducts: completed,
		UnlockedProducts:  unlocked,
		RecommendedNext:   recommended,
	}
}

func (g UnlockGraph) prerequisitesMet(product string, completed map[string]bool) bool {
	for _, prereq := range g.Prerequisites[product] {
		if !completed[prereq] {
			return false
		}
	}
	return true
}
