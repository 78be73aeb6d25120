// Package tui is the interactive terminal wizard the demo CLI drives the
// Assessment Runtime with: one visible question per screen, re-evaluating
// visibility after every answer the same way the Assessment Runtime itself
// does (§4.2's "merged view", not a screen fixed at wizard start). It is a
// linear question-at-a-time flow with no modals or overlays, generalized
// from the teacher's chat Program/Update/View split in core/internal/ui.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brightpath/carecoord/internal/assessment"
	"github.com/brightpath/carecoord/internal/moduleconfig"
)

// Model pages through one module's visible questions, applying each answer
// to State as it is confirmed.
type Model struct {
	Module  *moduleconfig.Module
	Runtime *assessment.Runtime
	State   *assessment.State

	styles Styles
	keys   KeyMap
	help   help.Model

	answerable   []moduleconfig.Question
	qIndex       int
	optionCursor int
	multi        map[string]bool
	input        textinput.Model

	width, height int
	quitting      bool
	finished      bool
	err           string
}

// New builds a wizard Model for module, recording answers into state.
func New(module *moduleconfig.Module, runtime *assessment.Runtime, state *assessment.State) Model {
	m := Model{
		Module:  module,
		Runtime: runtime,
		State:   state,
		styles:  DefaultStyles(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		multi:   map[string]bool{},
		input:   textinput.New(),
	}
	m.refreshQuestion()
	return m
}

// Finished reports whether every required visible question has been
// answered and the wizard is ready to hand State back to its caller.
func (m Model) Finished() bool { return m.finished }

// Quitting reports whether the user aborted with ctrl+c.
func (m Model) Quitting() bool { return m.quitting }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// refreshQuestion recomputes the answerable question list against the
// current merged state (§4.2: a question's visibility can change the
// instant an earlier answer is applied) and loads any existing answer for
// the current question into the active input widget.
func (m *Model) refreshQuestion() {
	result := m.Runtime.Evaluate(m.Module, m.State)
	m.answerable = m.answerable[:0]
	for _, q := range result.VisibleQuestions {
		if q.Type == moduleconfig.TypeDerived || q.ReadOnly {
			continue
		}
		m.answerable = append(m.answerable, q)
	}

	if m.qIndex >= len(m.answerable) {
		m.finished = true
		return
	}
	m.finished = false
	m.loadCurrentAnswer()
}

func (m *Model) current() moduleconfig.Question {
	return m.answerable[m.qIndex]
}

func (m *Model) loadCurrentAnswer() {
	q := m.current()
	merged := m.State.Merged()
	existing, has := merged[q.ID]

	m.optionCursor = 0
	m.multi = map[string]bool{}
	m.input = textinput.New()
	m.input.Focus()
	m.err = ""

	switch q.Type {
	case moduleconfig.TypeSingleSelect:
		if has {
			for i, opt := range q.Options {
				if opt.Value == existing {
					m.optionCursor = i
				}
			}
		}
	case moduleconfig.TypeMultiSelect:
		if has {
			for _, v := range toStringSlice(existing) {
				m.multi[v] = true
			}
		}
	case moduleconfig.TypeNumeric, moduleconfig.TypeCurrency:
		if n, ok := existing.(float64); ok {
			m.input.SetValue(strconv.FormatFloat(n, 'f', -1, 64))
		}
	case moduleconfig.TypeText:
		if s, ok := existing.(string); ok {
			m.input.SetValue(s)
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.finished {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Back):
			if m.qIndex > 0 {
				m.qIndex--
				m.refreshQuestion()
			}
			return m, nil
		case key.Matches(msg, m.keys.Next):
			return m.confirmAnswer()
		}
		return m.updateCurrentWidget(msg)
	}
	return m, nil
}

func (m Model) updateCurrentWidget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.current()
	switch q.Type {
	case moduleconfig.TypeSingleSelect:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.optionCursor > 0 {
				m.optionCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.optionCursor < len(q.Options)-1 {
				m.optionCursor++
			}
		}
		return m, nil
	case moduleconfig.TypeMultiSelect:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.optionCursor > 0 {
				m.optionCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.optionCursor < len(q.Options)-1 {
				m.optionCursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			val := q.Options[m.optionCursor].Value
			m.multi[val] = !m.multi[val]
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

// confirmAnswer validates and applies the current widget's value, then
// advances to the next question. A validation failure keeps the wizard on
// the same question and surfaces the reason (§4.2, §7: an invalid answer
// never aborts the assessment, it just stays unanswered).
func (m Model) confirmAnswer() (tea.Model, tea.Cmd) {
	q := m.current()
	var value any

	switch q.Type {
	case moduleconfig.TypeSingleSelect:
		value = q.Options[m.optionCursor].Value
	case moduleconfig.TypeMultiSelect:
		selected := make([]string, 0, len(m.multi))
		for _, opt := range q.Options {
			if m.multi[opt.Value] {
				selected = append(selected, opt.Value)
			}
		}
		value = selected
	case moduleconfig.TypeNumeric, moduleconfig.TypeCurrency:
		n, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil {
			m.err = "enter a number"
			return m, nil
		}
		value = n
	case moduleconfig.TypeText:
		value = m.input.Value()
	}

	if err := m.State.ApplyAnswer(m.Module, q.ID, value); err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.qIndex++
	m.refreshQuestion()
	if m.finished {
		return m, tea.Quit
	}
	return m, nil
}

func toStringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (m Model) View() string {
	if m.quitting {
		return m.styles.Help.Render("Cancelled.\n")
	}
	if m.finished {
		return m.styles.Title.Render("All questions answered.") + "\n"
	}

	q := m.current()
	var b strings.Builder

	progress := fmt.Sprintf("Question %d of %d", m.qIndex+1, len(m.answerable))
	b.WriteString(m.styles.Progress.Render(progress) + "\n\n")
	b.WriteString(m.styles.Question.Render(q.Label) + "\n")
	if q.Help != "" {
		b.WriteString(m.styles.Help.Render(q.Help) + "\n")
	}
	b.WriteString("\n")

	switch q.Type {
	case moduleconfig.TypeSingleSelect:
		for i, opt := range q.Options {
			b.WriteString(m.renderOption(opt.Label, i == m.optionCursor, false) + "\n")
		}
	case moduleconfig.TypeMultiSelect:
		for i, opt := range q.Options {
			b.WriteString(m.renderOption(opt.Label, i == m.optionCursor, m.multi[opt.Value]) + "\n")
		}
		b.WriteString("\n" + m.styles.Help.Render("space to toggle, enter to confirm") + "\n")
	default:
		b.WriteString(m.input.View() + "\n")
	}

	if m.err != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.err) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderOption(label string, focused, selected bool) string {
	cursor := "  "
	if focused {
		cursor = "> "
	}
	mark := "[ ]"
	if selected {
		mark = "[x]"
	}
	line := cursor + mark + " " + label
	if focused {
		return m.styles.Selected.Render(line)
	}
	return m.styles.Unselected.Render(line)
}
