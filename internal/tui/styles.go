package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Reverse(true)
	errorStyle    = lipgloss.NewStyle().Foreground(ColorDanger)
	infoStyle     = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// dotStyle colors a marker with its domain color
func dotStyle(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle().Foreground(ColorInfo)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
