package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/brightpath/carecoord/internal/adjudicator"
	"github.com/brightpath/carecoord/internal/adjudicator/outcomelog"
	"github.com/brightpath/carecoord/internal/assessment"
	"github.com/brightpath/carecoord/internal/careapp"
	"github.com/brightpath/carecoord/internal/contracts"
	"github.com/brightpath/carecoord/internal/cost"
	"github.com/brightpath/carecoord/internal/flags"
	"github.com/brightpath/carecoord/internal/hours"
	"github.com/brightpath/carecoord/internal/llmclient"
	"github.com/brightpath/carecoord/internal/mcip"
	"github.com/brightpath/carecoord/internal/moduleconfig"
	"github.com/brightpath/carecoord/internal/planner"
	"github.com/brightpath/carecoord/internal/region"
	"github.com/brightpath/carecoord/internal/scoring"
	"github.com/brightpath/carecoord/internal/session"
	"github.com/brightpath/carecoord/internal/tui"
	"github.com/brightpath/carecoord/internal/varates"
)

var (
	assessZip      string
	assessState    string
	assessDataDir  string
	assessLLMModel string
)

func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run an interactive care assessment and cost plan",
		RunE:  runAssess,
	}
	cmd.Flags().StringVar(&assessZip, "zip", "", "household ZIP code")
	cmd.Flags().StringVar(&assessState, "state", "", "household state abbreviation")
	cmd.Flags().StringVar(&assessDataDir, "data-dir", "", "directory for the decision outcome log (disabled when empty)")
	cmd.Flags().StringVar(&assessLLMModel, "llm-model", "llama3", "Ollama model name, when --config enables the LLM")
	return cmd
}

// runAssess drives the care assessment wizard, then the financial profile
// and money-entry wizards, then publishes a CareRecommendation and a
// FinancialProfile through one MCIP coordinator, tracked by one Session
// (§2 control flow end to end).
func runAssess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	registry := flags.DefaultRegistry()
	loader := moduleconfig.NewLoader(registry)

	careModule, err := loader.LoadFile(filepath.Join(cfg.Modules.Dir, "care_assessment.json"))
	if err != nil {
		return fmt.Errorf("load care_assessment module: %w", err)
	}
	financeModule, err := loader.LoadFile(filepath.Join(cfg.Modules.Dir, "financial_profile.json"))
	if err != nil {
		return fmt.Errorf("load financial_profile module: %w", err)
	}

	vaTable, err := varates.Load(cfg.Modules.VARatesFile)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to bundled VA rate table")
		vaTable = varates.DefaultTable()
	}
	regionTable, err := region.LoadTable(cfg.Modules.RegionalFile)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to bundled regional table")
		regionTable = region.DefaultTable()
	}
	tierRates, err := cost.LoadTierRates(cfg.Modules.CostFile)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to bundled tier rates")
		tierRates = cost.DefaultTierRates()
	}

	client := buildLLMClient()

	var outLog adjudicator.OutcomeLogger
	if assessDataDir != "" {
		store, err := outcomelog.Open(assessDataDir)
		if err != nil {
			return fmt.Errorf("open outcome log: %w", err)
		}
		defer store.Close()
		outLog = store
	}

	coordinator := mcip.New()
	defer coordinator.Close()
	sess := session.New(coordinator, mcip.DefaultUnlockGraph())

	runtime := assessment.NewRuntime(vaTable)
	engine := scoring.NewEngine(flags.DefaultContradictions())
	adj := adjudicator.New(client, cfg.Features.LLMAdjudication, cfg.LLM.ConfidenceFloor, careModule.ID, version, outLog)

	app := careapp.New(careModule, runtime, engine, adj, registry, nil, coordinator)

	careState := assessment.NewState()
	careWizard := tui.New(careModule, runtime, careState)
	if _, err := runWizard(careWizard); err != nil {
		return err
	}
	careState.Commit()
	sess.CompleteProduct("care_assessment", "cost_planner")

	rec, err := app.Run(ctx, careState)
	if err != nil {
		return fmt.Errorf("run care assessment: %w", err)
	}

	financeState := assessment.NewState()
	financeWizard := tui.New(financeModule, runtime, financeState)
	if _, err := runWizard(financeWizard); err != nil {
		return err
	}
	financeState.Commit()

	moneyWizard := tui.NewMoneyModel()
	finalMoney, err := runWizard(moneyWizard)
	if err != nil {
		return err
	}
	money := finalMoney.(tui.MoneyModel)

	financeResult := runtime.Evaluate(financeModule, financeState)
	monthlyIncome := financeResult.DerivedFields["total_monthly_income"]

	hoursEstimator := hours.New(client, cfg.Features.LLMHours, cfg.LLM.ConfidenceFloor)
	costCalc := cost.NewCalculator(tierRates, regionTable, cost.DefaultAddons())
	p := planner.New(hoursEstimator, costCalc, coordinator)

	profile := p.Plan(ctx, planner.Input{
		CareRecommendation: rec,
		ZipCode:            assessZip,
		State:              assessState,
		MonthlyIncome:      monthlyIncome,
		Assets:             money.Assets,
		Debts:              money.Debts,
		HoursInput:         hoursInputFrom(rec),
		ClinicalSummary:    careModule.ID + " assessment complete",
		CognitiveLevel:     cognitiveLevelOf(rec),
		ADLCount:           float64(len(rec.Flags)),
	})
	sess.CompleteProduct("cost_planner", "provider_directory")

	rendered, err := tui.RenderRecommendation(rec)
	if err != nil {
		return fmt.Errorf("render recommendation: %w", err)
	}
	fmt.Println(rendered)
	fmt.Println(tui.CostBreakdownTable(profile).View())
	fmt.Printf("\nEstimated monthly cost: $%.2f (%s)\n", profile.EstimatedMonthlyCost, profile.RegionName)
	if profile.RunwayMonths > 0 {
		fmt.Printf("Asset runway: %.1f months\n", profile.RunwayMonths)
	}

	return nil
}

// runWizard drives a tea.Model to completion non-interactively-safe: it
// runs the full bubbletea program and returns the final model state once
// the wizard reports itself finished or the user quits.
func runWizard(m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run wizard: %w", err)
	}
	return final, nil
}

func buildLLMClient() *llmclient.Client {
	if !cfg.Features.LLMEnabled {
		return nil
	}
	provider := llmclient.NewOllamaProvider("", assessLLMModel)
	return llmclient.New(provider, cfg.LLM.Timeout())
}

// hoursInputFrom derives a coarse hours.Input from a CareRecommendation's
// flags, since the recommendation itself doesn't carry raw BADL/IADL
// answers — only the flags those answers raised.
func hoursInputFrom(rec contracts.CareRecommendation) hours.Input {
	flagSet := make(map[string]bool, len(rec.Flags))
	for _, f := range rec.Flags {
		flagSet[f.Name] = true
	}

	in := hours.Input{
		Wandering:          flagSet["wandering"],
		Aggression:         flagSet["aggression"],
		Sundowning:         flagSet["sundowning"],
		HighRiskMedication: flagSet["high_risk_medication"],
		OvernightNeeded:    rec.Tier == contracts.TierMemoryCareHighAcuity,
		Cognitive:          cognitiveFromTier(rec.Tier),
	}
	if flagSet["moderate_safety_concern"] || flagSet["unsafe_environment"] {
		in.BADLTasks = []string{"bathing", "transferring"}
	}
	return in
}

func cognitiveFromTier(tier contracts.Tier) hours.CognitiveLevel {
	switch tier {
	case contracts.TierMemoryCare:
		return hours.CognitiveModerate
	case contracts.TierMemoryCareHighAcuity:
		return hours.CognitiveSevere
	default:
		return hours.CognitiveNone
	}
}

func cognitiveLevelOf(rec contracts.CareRecommendation) float64 {
	switch rec.Tier {
	case contracts.TierMemoryCare:
		return 1
	case contracts.TierMemoryCareHighAcuity:
		return 2
	default:
		return 0
	}
}
