// Package color names the ANSI colors used for CLI output. They follow the terminal's own theme.
package color

import "github.com/charmbracelet/lipgloss"

var (
	Red      = lipgloss.Color("1")
	Green    = lipgloss.Color("2")
	Yellow   = lipgloss.Color("3")
	Blue     = lipgloss.Color("4")
	Purple   = lipgloss.Color("5")
	Cyan     = lipgloss.Color("6")
	HiPurple = lipgloss.Color("13")

	// Orange highlights key names in help text.
	Orange = lipgloss.Color("214")
)
