package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brightpath/carecoord/internal/adjudicator"
	"github.com/brightpath/carecoord/internal/assessment"
	"github.com/brightpath/carecoord/internal/careapp"
	"github.com/brightpath/carecoord/internal/flags"
	"github.com/brightpath/carecoord/internal/mcip"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/scoring"
)

// scenario is one scripted, non-interactive run of the care assessment
// module, named and answered ahead of time.
type scenario struct {
	name        string
	description string
	answers     map[string]any
}

// bundledScenarios mirrors the three care-assessment fixtures exercised by
// careapp's own tests, kept here as a demo/debugging aid rather than a
// second copy of the test assertions.
func bundledScenarios() []scenario {
	return []scenario{
		{
			name:        "assisted-living",
			description: "Moderate needs, limited caregiver, veteran status set",
			answers: map[string]any{
				"lives_alone":            "with_family",
				"badl_help":              []string{"bathing"},
				"fall_history":           "near_miss",
				"home_safety":            "some_concerns",
				"cognitive_status":       "mild",
				"caregiver_availability": "limited",
				"veteran_status":         "yes",
			},
		},
		{
			name:        "high-acuity-gate",
			description: "Wandering plus aggression floors memory_care_high_acuity regardless of score",
			answers: map[string]any{
				"lives_alone":            "with_family",
				"badl_help":              []string{"bathing", "toileting", "dressing"},
				"fall_history":           "none",
				"home_safety":            "safe",
				"cognitive_status":       "moderate",
				"behaviors":              []string{"wandering", "aggression"},
				"caregiver_availability": "limited",
				"high_risk_medication":   "yes",
			},
		},
		{
			name:        "no-care-needed",
			description: "Clean profile, still routed to cost planning",
			answers: map[string]any{
				"lives_alone":            "with_family",
				"badl_help":              []string{"none"},
				"fall_history":           "none",
				"home_safety":            "safe",
				"cognitive_status":       "none",
				"caregiver_availability": "full_time",
			},
		},
	}
}

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [scenario]",
		Short: "Run a scripted care-assessment scenario without the interactive wizard",
		Long: `replay runs a bundled, pre-answered care assessment scenario end to end
and prints the resulting recommendation. With no argument, it lists the
available scenarios.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReplay,
	}
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	scenarios := bundledScenarios()

	if len(args) == 0 {
		fmt.Println("Available scenarios:")
		for _, s := range scenarios {
			fmt.Printf("  %-20s %s\n", s.name, s.description)
		}
		return nil
	}

	var chosen *scenario
	for i := range scenarios {
		if scenarios[i].name == args[0] {
			chosen = &scenarios[i]
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("unknown scenario %q", args[0])
	}

	registry := flags.DefaultRegistry()
	loader := moduleconfig.NewLoader(registry)
	module, err := loader.LoadFile(filepath.Join(cfg.Modules.Dir, "care_assessment.json"))
	if err != nil {
		return fmt.Errorf("load care_assessment module: %w", err)
	}

	coordinator := mcip.New()
	defer coordinator.Close()

	adj := adjudicator.New(nil, false, 0, module.ID, version, nil)
	app := careapp.New(module, assessment.NewRuntime(nil), scoring.NewEngine(flags.DefaultContradictions()), adj, registry, nil, coordinator)

	state := assessment.NewState()
	for id, v := range chosen.answers {
		if err := state.ApplyAnswer(module, id, v); err != nil {
			return fmt.Errorf("scenario %q: answer %q: %w", chosen.name, id, err)
		}
	}
	state.Commit()

	rec, err := app.Run(context.Background(), state)
	if err != nil {
		return fmt.Errorf("run scenario %q: %w", chosen.name, err)
	}

	fmt.Printf("Scenario: %s\n%s\n\n", chosen.name, chosen.description)
	fmt.Printf("Recommended tier: %s (score %.1f, confidence %.0f%%)\n", rec.Tier, rec.TierScore, rec.Confidence*100)
	fmt.Printf("Decision path: %s\n", rec.DecisionPath)
	if len(rec.Flags) > 0 {
		names := make([]string, 0, len(rec.Flags))
		for _, f := range rec.Flags {
			names = append(names, f.Name)
		}
		sort.Strings(names)
		fmt.Printf("Flags: %v\n", names)
	}
	fmt.Printf("Next step: %s (%s)\n", rec.NextStep.Label, rec.NextStep.Route)
	for _, line := range rec.Rationale {
		fmt.Printf("  - %s\n", line)
	}

	return nil
}
