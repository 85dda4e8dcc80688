package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"relinker/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Open  key.Binding
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Open: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// CloseHelpMsg asks the app to leave the help view
type CloseHelpMsg struct{}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return CloseHelpMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("GUID Relinker Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Before relinking"))
	b.WriteString("\n")
	b.WriteString(helpLine("y", "Relink every listed asset"))
	b.WriteString(helpLine("n / Esc / q", "Quit without changes"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Report"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Scroll"))
	b.WriteString(helpLine("c", "Copy the report to the clipboard"))
	b.WriteString(helpLine("q / Enter", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("Ctrl+C", "Quit, except while files are being written"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("What a relink does"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Each source asset takes the GUID of the reference asset at the"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  same relative path. The two .meta files swap identifiers, then"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  every file that used the old GUID is rewritten."))
	b.WriteString("\n\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if n := len([]rune(s)); n < length {
		return s + strings.Repeat(" ", length-n)
	}
	return s
}
