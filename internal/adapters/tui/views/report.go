package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"relinker/internal/adapters/tui/styles"
	"relinker/internal/application"
	"relinker/internal/domain"
)

// ReportKeyMap defines key bindings for the report view
type ReportKeyMap struct {
	Copy key.Binding
	Quit key.Binding
}

// ReportKeys are the report view key bindings
var ReportKeys = ReportKeyMap{
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy report"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "enter"),
		key.WithHelp("q", "quit"),
	),
}

// ReportModel shows the update report after a relink
type ReportModel struct {
	ViewState
	viewport viewport.Model
	report   *domain.UpdateReport
	err      error

	// copy writes text to the system clipboard
	copy func(string) error
}

// NewReportModel creates a new report view model
func NewReportModel() *ReportModel {
	return &ReportModel{
		viewport: viewport.New(80, 20),
		copy:     clipboard.WriteAll,
	}
}

// SetReport sets the report and the error that aborted the run, if any
func (m *ReportModel) SetReport(report *domain.UpdateReport, err error) {
	m.report = report
	m.err = err
	m.ClearMessage()
	m.viewport.SetContent(m.rows())
	m.viewport.GotoTop()
}

// Init initializes the report view
func (m *ReportModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the report view
func (m *ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-12, 3)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ReportKeys.Quit):
			return m, func() tea.Msg { return QuitMsg{} }
		case key.Matches(msg, ReportKeys.Copy):
			m.copyReport()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ReportModel) copyReport() {
	if m.report == nil {
		return
	}
	if err := m.copy(m.report.Format(application.Version)); err != nil {
		m.SetMessage(fmt.Sprintf("Clipboard unavailable: %v", err), true)
		return
	}
	m.SetMessage("Report copied to clipboard", false)
}

func (m *ReportModel) rows() string {
	if m.report == nil || len(m.report.Entries) == 0 {
		return styles.MutedText.Render("No assets were relinked.")
	}
	lines := make([]string, 0, len(m.report.Entries))
	for _, e := range m.report.Entries {
		lines = append(lines, RenderReportEntry(e))
	}
	return strings.Join(lines, "\n")
}

// View renders the report view
func (m *ReportModel) View() string {
	v := NewViewBuilder().Title("GUID Relinker " + application.Version)

	if m.err != nil {
		v.Line(styles.ErrorMsg.Render("Relink aborted: ") + m.err.Error())
		v.Muted("Assets listed below were relinked before the failure.")
		v.BlankLine()
	}
	if m.report != nil {
		v.Line(styles.Success.Render(m.report.Summary()))
		v.BlankLine()
	}

	v.Line(m.viewport.View())
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Help(ReportKeys.Copy, ReportKeys.Quit, HelpKeys.Open)

	return v.String()
}
