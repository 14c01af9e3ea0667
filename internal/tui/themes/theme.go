// Package themes holds the color schemes used by the interactive views.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bar      lipgloss.Style
	Axis     lipgloss.Style
	Label    lipgloss.Style
	Status   lipgloss.Style
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#7BC950"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),
	Axis: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#d4d4d4")),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Italic(true),
}

// Plain renders without any color, for pipes and tests.
var Plain = Theme{
	Title:    lipgloss.NewStyle(),
	Subtitle: lipgloss.NewStyle(),
	Bar:      lipgloss.NewStyle(),
	Axis:     lipgloss.NewStyle(),
	Label:    lipgloss.NewStyle(),
	Status:   lipgloss.NewStyle(),
}
