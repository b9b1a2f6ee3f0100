package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Border      lipgloss.Style
	Hint        lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Selected    lipgloss.Style
	Modal       lipgloss.Style
}

var DefaultTheme = Theme{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:       lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:       lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6C7086")).Padding(0, 1),
	Hint:        lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	TabActive:   lipgloss.NewStyle().Bold(true).Padding(0, 2).Background(lipgloss.Color("#313244")).Foreground(lipgloss.Color("#F9E2AF")),
	TabInactive: lipgloss.NewStyle().Padding(0, 2).Faint(true),
	Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
	Modal:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#89B4FA")).Padding(1, 2),
}

// MonoTheme avoids colors, for terminals with odd palettes.
var MonoTheme = Theme{
	Title:       lipgloss.NewStyle().Bold(true),
	Label:       lipgloss.NewStyle().Faint(true),
	Value:       lipgloss.NewStyle(),
	Border:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	Hint:        lipgloss.NewStyle().Faint(true),
	Error:       lipgloss.NewStyle().Bold(true),
	Success:     lipgloss.NewStyle().Bold(true),
	TabActive:   lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 2),
	TabInactive: lipgloss.NewStyle().Padding(0, 2),
	Selected:    lipgloss.NewStyle().Reverse(true),
	Modal:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
}

// ThemeByName maps the config theme setting to a Theme.
func ThemeByName(name string) Theme {
	if name == "mono" {
		return MonoTheme
	}
	return DefaultTheme
}
