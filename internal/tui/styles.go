package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Cream     = lipgloss.Color("#F5F0E8")
	Charcoal  = lipgloss.Color("#2B2B2B")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	Amber     = lipgloss.Color("#D97706")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

var (
	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(Cream).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	dimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	accentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	okStyle = lipgloss.NewStyle().
		Foreground(Green)

	missStyle = lipgloss.NewStyle().
			Foreground(Red)
)
