package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	favoriteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	starOn  = "★"
	starOff = "☆"
	swatch  = "●"
)

// swatchFor renders a color dot; colors lipgloss cannot parse render as-is.
func swatchFor(color string) string {
	if color == "" {
		return " "
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(swatch)
}
