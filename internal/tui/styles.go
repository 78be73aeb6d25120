package tui

import "github.com/charmbracelet/lipgloss"

// Styles are the wizard's pre-computed lipgloss styles, split out from
// layout/business logic the way the teacher's terminal UI separates
// Styles from Model.
type Styles struct {
	Title     lipgloss.Style
	Help      lipgloss.Style
	Question  lipgloss.Style
	Selected  lipgloss.Style
	Unselected lipgloss.Style
	Progress  lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns the wizard's bundled color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Question:   lipgloss.NewStyle().Bold(true).MarginTop(1),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Unselected: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Progress:   lipgloss.NewStyle().Foreground(lipgloss.Color("105")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
