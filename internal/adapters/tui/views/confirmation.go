package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"relinker/internal/adapters/tui/styles"
	"relinker/internal/application/commands"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "relink"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc", "q"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel asks before a relink is run against a computed plan
type ConfirmationModel struct {
	ViewState
	Plan *commands.PlanResult
	Keys ConfirmKeyMap
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() *ConfirmationModel {
	return &ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// SetPlan sets the plan being confirmed
func (m *ConfirmationModel) SetPlan(plan *commands.PlanResult) {
	m.Plan = plan
}

// Init initializes the confirmation view
func (m *ConfirmationModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			return m, func() tea.Msg { return QuitMsg{} }
		case key.Matches(msg, m.Keys.Confirm):
			if m.Plan == nil || len(m.Plan.Entries) == 0 {
				return m, nil
			}
			return m, func() tea.Msg { return ConfirmRelinkMsg{} }
		}
	}

	return m, nil
}

// View renders the confirmation view
func (m *ConfirmationModel) View() string {
	v := NewViewBuilder().Title("GUID Relinker").Subtitle("Review the plan before relinking")
	if m.Plan == nil {
		return v.Muted("No plan").String()
	}

	v.Line(RenderTree("Source", m.Plan.Match.Source)).
		Line(RenderTree("Reference", m.Plan.Match.Reference)).
		BlankLine()

	if len(m.Plan.Entries) == 0 {
		return v.Line(styles.WarningMsg.Render("No source asset has a counterpart in the reference tree.")).
			BlankLine().
			Help(m.Keys.Cancel).
			String()
	}

	v.Line(styles.Success.Render(m.Plan.Message)).
		Line(RenderLabelValue("References found", fmt.Sprint(m.Plan.References)))
	if dropped := m.Plan.Match.Dropped; dropped > 0 {
		v.Line(RenderLabelValue("Without counterpart", fmt.Sprint(dropped)))
	}
	v.BlankLine()

	limit := max(m.Height-14, 5)
	for i, e := range m.Plan.Entries {
		if i == limit {
			v.Muted(fmt.Sprintf("  … %d more", len(m.Plan.Entries)-limit))
			break
		}
		v.Line(fmt.Sprintf("  %s %s", styles.CountStyle(e.Dependents).Render(fmt.Sprint(e.Dependents)), e.OldPath))
	}
	v.BlankLine()

	v.Line(styles.WarningMsg.Render("Identifiers are swapped in place and cannot be undone automatically."))
	v.BlankLine()
	v.Line(RenderConfirmPrompt("Relink " + fmt.Sprint(len(m.Plan.Entries)) + " assets?"))
	v.Help(HelpKeys.Open)

	return v.String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
