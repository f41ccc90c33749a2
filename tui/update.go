package tui

import (
	"strconv"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yamanami-choir/yamanami/player"
)

func (b *statefulBubble) Init() tea.Cmd {
	return b.spinnerC.Tick
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		b.syncItems()
		return b, nil
	case error:
		b.raiseError(msg)
		return b, nil
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case errorState:
		return b.updateError(msg)
	case seekState:
		return b.updateSeek(msg)
	case filterState:
		return b.updateFilter(msg)
	default:
		return b.updateBrowse(msg)
	}
}

// keyEvent translates the keys the player listens to. Anything else is not a page key event.
func keyEvent(msg tea.KeyMsg) (player.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return player.KeyEvent{Code: player.KeySpace, Alt: msg.Alt}, true
	case tea.KeyLeft:
		return player.KeyEvent{Code: player.KeyArrowLeft, Alt: msg.Alt}, true
	case tea.KeyRight:
		return player.KeyEvent{Code: player.KeyArrowRight, Alt: msg.Alt}, true
	default:
		return player.KeyEvent{}, false
	}
}

func (b *statefulBubble) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if ev, ok := keyEvent(msg); ok {
			b.page.press(ev)
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.play):
			if c := b.selectedCard(); c != nil {
				c.click()
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.togglePlay):
			b.page.surface.togglePlay()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.mute):
			b.page.surface.toggleMute()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.seek):
			b.setState(seekState)
			b.seekC.SetValue(strconv.Itoa(b.page.surface.view().SeekValue))
			b.seekC.CursorEnd()
			return b, b.seekC.Focus()
		case bubblesKey.Matches(msg, b.keymap.toggleVideo):
			return b, b.toggleVideo()
		}
	}

	var cmd tea.Cmd
	b.listC, cmd = b.listC.Update(msg)
	if b.listC.SettingFilter() {
		b.setState(filterState)
	}
	return b, cmd
}

func (b *statefulBubble) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	b.listC, cmd = b.listC.Update(msg)
	if !b.listC.SettingFilter() {
		b.setState(browseState)
	}
	return b, cmd
}

func (b *statefulBubble) updateSeek(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.seekC.Blur()
			b.setState(browseState)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			b.seekC.Blur()
			b.setState(browseState)
			b.page.surface.seekCommit(b.seekC.Value())
			return b, nil
		}
	}

	before := b.seekC.Value()
	var cmd tea.Cmd
	b.seekC, cmd = b.seekC.Update(msg)
	if value := b.seekC.Value(); value != before {
		b.page.surface.seekInput(value)
	}
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.setState(browseState)
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}
	return b, nil
}

// toggleVideo removes the video pane, or mounts a fresh one in its place.
func (b *statefulBubble) toggleVideo() tea.Cmd {
	status := "video pane mounted"
	if b.page.mounted(b.containerID) {
		b.page.unmount(b.containerID)
		status = "video pane removed"
	} else {
		b.page.mount(b.containerID)
	}

	if b.containerChanged != nil {
		b.containerChanged()
	}
	return b.listC.NewStatusMessage(status)
}
