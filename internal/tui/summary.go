package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/evertras/bubble-table/table"

	"github.com/brightpath/carecoord/internal/contracts"
)

// RenderRecommendation renders a CareRecommendation as markdown through
// glamour, the same renderer the teacher uses for any long-form model
// output, then appends a bubble-table ranking of every tier considered —
// this module's first actual use of that dependency anywhere in the
// codebase it was grounded on.
func RenderRecommendation(rec contracts.CareRecommendation) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# Recommendation: %s\n\n", tierTitle(rec.Tier))
	fmt.Fprintf(&md, "**Confidence:** %.0f%%  \n", rec.Confidence*100)
	fmt.Fprintf(&md, "**Decision path:** %s\n\n", rec.DecisionPath)

	if len(rec.Rationale) > 0 {
		md.WriteString("## Why\n\n")
		for _, line := range rec.Rationale {
			fmt.Fprintf(&md, "- %s\n", line)
		}
		md.WriteString("\n")
	}

	if len(rec.Flags) > 0 {
		md.WriteString("## Flags\n\n")
		for _, f := range rec.Flags {
			fmt.Fprintf(&md, "- **%s** (%s/%s): %s\n", f.Label, f.Category, f.Severity, f.Description)
		}
		md.WriteString("\n")
	}

	fmt.Fprintf(&md, "## Next step\n\n%s → `%s`\n", rec.NextStep.Label, rec.NextStep.Route)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return "", err
	}

	return out + "\n" + TierRankingsTable(rec.TierRankings).View(), nil
}

// TierRankingsTable renders a CareRecommendation's tier_rankings as a
// read-only bubble-table, highest score first.
func TierRankingsTable(rankings []contracts.TierScore) table.Model {
	columns := []table.Column{
		table.NewColumn("tier", "Tier", 28),
		table.NewColumn("score", "Score", 10),
	}
	rows := make([]table.Row, 0, len(rankings))
	for _, r := range rankings {
		rows = append(rows, table.NewRow(table.RowData{
			"tier":  tierTitle(r.Tier),
			"score": fmt.Sprintf("%.1f", r.Score),
		}))
	}
	return table.New(columns).WithRows(rows).WithPageSize(len(rows) + 1)
}

// CostBreakdownTable renders a FinancialProfile's cost_breakdown as a
// bubble-table: one row per line item (these sum to EstimatedMonthlyCost,
// §4.6 breakdown-sum invariant), followed by a "Total (adjusted)" row
// showing EstimatedMonthlyCost itself.
func CostBreakdownTable(profile contracts.FinancialProfile) table.Model {
	columns := []table.Column{
		table.NewColumn("label", "Line item", 32),
		table.NewColumn("amount", "Monthly $", 12),
	}
	rows := make([]table.Row, 0, len(profile.CostBreakdown)+1)
	for _, item := range profile.CostBreakdown {
		rows = append(rows, table.NewRow(table.RowData{
			"label":  item.Label,
			"amount": fmt.Sprintf("%.2f", item.Amount),
		}))
	}
	rows = append(rows, table.NewRow(table.RowData{
		"label":  "Total (adjusted)",
		"amount": fmt.Sprintf("%.2f", profile.EstimatedMonthlyCost),
	}))
	return table.New(columns).WithRows(rows).WithPageSize(len(rows) + 1)
}

func tierTitle(t contracts.Tier) string {
	switch t {
	case contracts.TierNoCareNeeded:
		return "No Care Needed"
	case contracts.TierInHome:
		return "In-Home Care"
	case contracts.TierAssistedLiving:
		return "Assisted Living"
	case contracts.TierMemoryCare:
		return "Memory Care"
	case contracts.TierMemoryCareHighAcuity:
		return "Memory Care (High Acuity)"
	default:
		return string(t)
	}
}
