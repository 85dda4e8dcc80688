package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red

	// Tree colors
	SourceTree    = lipgloss.Color("#60A5FA") // Blue
	ReferenceTree = lipgloss.Color("#F97316") // Orange

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree labels
	Source = lipgloss.NewStyle().
		Foreground(SourceTree).
		Bold(true)

	Reference = lipgloss.NewStyle().
			Foreground(ReferenceTree).
			Bold(true)

	// Report rows
	Count = lipgloss.NewStyle().
		Foreground(Secondary).
		Width(6).
		Align(lipgloss.Right)

	CountZero = lipgloss.NewStyle().
			Foreground(Muted).
			Width(6).
			Align(lipgloss.Right)

	Path = lipgloss.NewStyle()

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Progress
	Spinner = lipgloss.NewStyle().
		Foreground(Primary)

	ProgressGradientFrom = "#7C3AED"
	ProgressGradientTo   = "#10B981"

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// CountStyle returns the report count style for a substitution count
func CountStyle(n int) lipgloss.Style {
	if n == 0 {
		return CountZero
	}
	return Count
}
