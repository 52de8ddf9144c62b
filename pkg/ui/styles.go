// Package ui holds the lipgloss styles shared by the CLI commands.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	Primary   = lipgloss.Color("#7D56F4") // Purple - brand color
	Secondary = lipgloss.Color("#00D4AA") // Cyan/Teal

	// Risk-profile colors
	High   = lipgloss.Color("#FF3838") // Red
	Medium = lipgloss.Color("#FFD93D") // Yellow
	Low    = lipgloss.Color("#6BCB77") // Green

	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Primary).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	RedTeamStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Error).
			Padding(0, 1)
)

// RiskStyle returns the style for a risk profile or severity label.
func RiskStyle(level string) lipgloss.Style {
	switch level {
	case "high", "critical":
		return lipgloss.NewStyle().Foreground(High).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(Medium)
	default:
		return lipgloss.NewStyle().Foreground(Low)
	}
}
