package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"relinker/internal/adapters/tui/styles"
)

// Progress phases
const (
	PhasePlanning  = "Finding GUID references"
	PhaseRewriting = "Updating GUID references"
)

// ProgressModel shows a spinner and a progress bar for the running command
type ProgressModel struct {
	ViewState
	spinner spinner.Model
	bar     progress.Model

	title string
	last  ProgressMsg
}

// NewProgressModel creates a new progress view model
func NewProgressModel() *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &ProgressModel{
		spinner: s,
		bar:     progress.New(progress.WithGradient(styles.ProgressGradientFrom, styles.ProgressGradientTo)),
	}
}

// Start resets the view for a new run
func (m *ProgressModel) Start(title string) tea.Cmd {
	m.title = title
	m.last = ProgressMsg{}
	return m.spinner.Tick
}

// Init initializes the progress view
func (m *ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the progress view
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.bar.Width = min(max(msg.Width-8, 10), 80)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.last = msg
		return m, nil
	}

	return m, nil
}

// Percent returns the completed fraction of the current phase
func (m *ProgressModel) Percent() float64 {
	if m.last.Total <= 0 {
		return 0
	}
	return min(float64(m.last.Done)/float64(m.last.Total), 1)
}

// View renders the progress view
func (m *ProgressModel) View() string {
	v := NewViewBuilder().Title("GUID Relinker")
	v.Line(m.spinner.View() + " " + m.title)
	v.BlankLine()

	if m.last.Phase != "" {
		v.Line(fmt.Sprintf("%s %d/%d", m.last.Phase, m.last.Done, m.last.Total))
		v.Line(m.bar.ViewAs(m.Percent()))
		v.Muted(m.last.Label)
	}

	return v.String()
}
