// Package themes holds the color schemes for the plot viewer.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Box         lipgloss.Style
	Help        lipgloss.Style
	// Clusters colors cluster markers in label order.
	Clusters []lipgloss.Color
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Border   lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#7c3aed"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),
	Clusters: []lipgloss.Color{
		lipgloss.Color("#7c3aed"),
		lipgloss.Color("#10b981"),
		lipgloss.Color("#f59e0b"),
		lipgloss.Color("#ef4444"),
		lipgloss.Color("#3b82f6"),
		lipgloss.Color("#ec4899"),
	},

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Padding(0, 2),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	Primary: lipgloss.Color("#cba6f7"),
	Muted:   lipgloss.Color("#6c7086"),
	Border:  lipgloss.Color("#45475a"),
	Clusters: []lipgloss.Color{
		lipgloss.Color("#cba6f7"),
		lipgloss.Color("#a6e3a1"),
		lipgloss.Color("#f9e2af"),
		lipgloss.Color("#f38ba8"),
		lipgloss.Color("#89dceb"),
		lipgloss.Color("#f5c2e7"),
	},

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Padding(0, 2),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")).
		Padding(0, 2),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
