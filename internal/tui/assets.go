package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightpath/carecoord/internal/aggregate"
	"github.com/brightpath/carecoord/internal/planner"
)

// moneyCategory is one Basic-mode entry screen: a label, the field it
// writes to on confirm, and the detail keys that category would split into
// under Advanced mode (§4.8). This wizard only drives Basic mode — detail
// editing is available once a profile is in hand, outside the onboarding
// flow.
type moneyCategory struct {
	Name   string
	Label  string
	Detail []string
}

// defaultAssetCategories is the fixed set of money sections
// FinancialProfile.total_assets sums across.
func defaultAssetCategories() []moneyCategory {
	return []moneyCategory{
		{Name: "liquid", Label: "Liquid Assets (checking, savings, cash)", Detail: []string{"checking", "savings", aggregate.OtherFieldID}},
		{Name: "investments", Label: "Investments (brokerage, stocks, bonds)", Detail: []string{"brokerage", aggregate.OtherFieldID}},
		{Name: "retirement", Label: "Retirement Accounts (401k, IRA, pension)", Detail: []string{"401k", "ira", aggregate.OtherFieldID}},
		{Name: "real_estate", Label: "Real Estate Equity", Detail: []string{"primary_residence", aggregate.OtherFieldID}},
		{Name: "life_insurance", Label: "Life Insurance Cash Value", Detail: []string{"whole_life", aggregate.OtherFieldID}},
	}
}

// defaultDebtCategories is the fixed set of money sections
// FinancialProfile.total_debt sums across.
func defaultDebtCategories() []moneyCategory {
	return []moneyCategory{
		{Name: "mortgage", Label: "Mortgage / Home Equity Loan", Detail: []string{"mortgage", aggregate.OtherFieldID}},
		{Name: "medical", Label: "Medical Debt", Detail: []string{"medical", aggregate.OtherFieldID}},
		{Name: "credit", Label: "Credit Cards / Personal Loans", Detail: []string{"credit_card", "personal_loan", aggregate.OtherFieldID}},
	}
}

// MoneyModel is the Basic-mode entry wizard for the five asset categories
// and the debt categories feeding a FinancialProfile's total_assets and
// total_debt. Each screen is one dollar total; confirming it seeds an
// aggregate.Field in Basic mode with Entered == Allocated, so the
// Allocated()-only invariant (§4.8) holds even though no detail split was
// ever shown to the user.
type MoneyModel struct {
	assetDefs []moneyCategory
	debtDefs  []moneyCategory

	Assets []planner.AssetCategory
	Debts  []planner.DebtCategory

	index    int // 0..len(assetDefs)-1 are assets, rest are debts
	input    textinput.Model
	styles   Styles
	keys     KeyMap
	quitting bool
	finished bool
	err      string
}

// NewMoneyModel builds the asset/debt entry wizard.
func NewMoneyModel() MoneyModel {
	m := MoneyModel{
		assetDefs: defaultAssetCategories(),
		debtDefs:  defaultDebtCategories(),
		styles:    DefaultStyles(),
		keys:      DefaultKeyMap(),
		input:     textinput.New(),
	}
	m.input.Placeholder = "0"
	m.input.Focus()
	return m
}

func (m MoneyModel) total() int {
	return len(m.assetDefs) + len(m.debtDefs)
}

func (m MoneyModel) currentDef() (moneyCategory, bool) {
	if m.index < len(m.assetDefs) {
		return m.assetDefs[m.index], true
	}
	if m.index-len(m.assetDefs) < len(m.debtDefs) {
		return m.debtDefs[m.index-len(m.assetDefs)], false
	}
	return moneyCategory{}, false
}

func (m MoneyModel) Finished() bool { return m.finished }
func (m MoneyModel) Quitting() bool { return m.quitting }

func (m MoneyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m MoneyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.finished {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		return m.confirm()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	return m, cmd
}

func (m MoneyModel) confirm() (tea.Model, tea.Cmd) {
	def, isAsset := m.currentDef()
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		raw = "0"
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.err = "enter a dollar amount"
		return m, nil
	}

	field := aggregate.NewBasicField(n, def.Detail)
	if isAsset {
		m.Assets = append(m.Assets, planner.AssetCategory{Name: def.Name, Field: field})
	} else {
		m.Debts = append(m.Debts, planner.DebtCategory{Name: def.Name, Field: field})
	}

	m.index++
	m.err = ""
	m.input = textinput.New()
	m.input.Placeholder = "0"
	m.input.Focus()

	if m.index >= m.total() {
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m MoneyModel) View() string {
	if m.quitting {
		return m.styles.Help.Render("Cancelled.\n")
	}
	if m.finished {
		return m.styles.Title.Render("Financial entry complete.") + "\n"
	}

	def, _ := m.currentDef()
	var b strings.Builder
	b.WriteString(m.styles.Progress.Render("Money entry "+strconv.Itoa(m.index+1)+" of "+strconv.Itoa(m.total())) + "\n\n")
	b.WriteString(m.styles.Question.Render(def.Label) + "\n\n")
	b.WriteString("$ " + m.input.View() + "\n")
	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err) + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("enter to confirm, ctrl+c to quit"))
	return b.String()
}
