// Package style renders CLI and page text with lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

// Site palette. Each color has a light and a dark terminal variant.
var (
	Accent   = lipgloss.AdaptiveColor{Light: "#3d6b4f", Dark: "#9ccfa8"}
	OnAccent = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#17201a"}
	Text     = lipgloss.AdaptiveColor{Light: "#2b2b2b", Dark: "#dfe3dc"}
	Danger   = lipgloss.AdaptiveColor{Light: "#b3261e", Dark: "#f2b8b5"}
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer that paints text with c.
func Fg(c lipgloss.TerminalColor) func(string) string {
	s := New().Foreground(c)
	return func(text string) string { return s.Render(text) }
}

func Faint(s string) string { return New().Faint(true).Render(s) }

func Bold(s string) string { return New().Bold(true).Render(s) }

// Title renders a heading block on the accent color.
func Title(s string) string {
	return New().Bold(true).Foreground(OnAccent).Background(Accent).Padding(0, 1).Render(s)
}

// ErrorTitle renders a heading block on the danger color.
func ErrorTitle(s string) string {
	return New().Bold(true).Foreground(OnAccent).Background(Danger).Padding(0, 1).Render(s)
}
