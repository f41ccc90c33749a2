package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/style"
)

const transportHeight = 3

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 0, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	transportStyle        = lipgloss.NewStyle().Padding(0, 2)
)

func (b *statefulBubble) View() string {
	if b.state == errorState {
		return b.viewError()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		listExtraPaddingStyle.Render(b.listC.View()),
		transportStyle.Render(b.viewTransport()),
		transportStyle.Render(b.helpC.View(b.keymap)),
	)
}

// viewTransport renders the shared player controls. Nothing is shown before the first play.
func (b *statefulBubble) viewTransport() string {
	s := b.page.surface.view()

	var pane string
	if b.page.mounted(b.containerID) {
		pane = style.Faint(icon.Get(icon.Video) + " pane ready")
	} else {
		pane = style.Faint(icon.Get(icon.Video) + " pane hidden")
	}

	if !s.Revealed {
		return pane
	}

	var line string
	switch {
	case s.Loading:
		line = fmt.Sprintf("%s %s", b.spinnerC.View(), style.Faint("loading"))
	case s.Controls:
		button := icon.Get(icon.Play)
		if s.Playing {
			button = icon.Get(icon.Pause)
		}

		sound := icon.Get(icon.Unmute)
		if s.Muted {
			sound = icon.Get(icon.Mute)
		}

		percent := 0.0
		if s.SeekMax > 0 {
			percent = float64(s.SeekValue) / float64(s.SeekMax)
		}

		line = strings.Join([]string{
			style.Fg(color.Purple)(button),
			b.progressC.ViewAs(percent),
			fmt.Sprintf("%s / %s", s.Current, s.Duration),
			sound,
		}, "  ")
	default:
		line = style.Fg(color.Red)(icon.Get(icon.Fail) + " playback unavailable")
	}

	if b.state == seekState {
		line = lipgloss.JoinVertical(lipgloss.Left, line, b.seekC.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, pane)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
