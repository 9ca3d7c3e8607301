package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorAccent = lipgloss.Color("#A8D8EA")
	ColorDeep   = lipgloss.Color("#596E79")
	ColorText   = lipgloss.Color("#E0E0E0")
	ColorAlert  = lipgloss.Color("#FF6B6B")
	ColorGood   = lipgloss.Color("#4ECDC4")
	ColorWarn   = lipgloss.Color("#FFE66D")
	ColorMuted  = lipgloss.Color("#6c757d")
)

var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorDeep).
			Italic(true)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	StyleMuted      = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDeep).
			Padding(0, 1)

	StyleTableHeader = lipgloss.NewStyle().
				Foreground(ColorDeep).
				Bold(true).
				Padding(0, 1)

	StyleTableCell = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	StyleApp = lipgloss.NewStyle().Margin(1, 2)
)

// ManagedLabel renders a device's managed flag.
func ManagedLabel(managed bool) string {
	if managed {
		return StyleStatusGood.Render("managed")
	}
	return StyleMuted.Render("unmanaged")
}
