package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/style"
)

// statefulKeymap holds the page's bindings and picks the help for the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit key.Binding

	// player
	play, playPause, togglePlay key.Binding
	seekBack, seekForward       key.Binding
	mute, seek, toggleVideo     key.Binding

	// list and prompts
	confirm, back, filter key.Binding
	up, down              key.Binding
	nextPage, prevPage    key.Binding
	top, bottom, showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func bind(help, description string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, description))
}

// newStatefulKeymap builds the bindings. The arrow help shows seekStep in seconds.
func newStatefulKeymap(seekStep float64) *statefulKeymap {
	step := strconv.FormatFloat(seekStep, 'f', -1, 64) + "s"
	highlight := style.Fg(color.Orange)

	return &statefulKeymap{
		quit:      bind("q", "quit", "q"),
		forceQuit: bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),

		play:        bind(highlight("enter"), highlight("play"), "enter"),
		playPause:   bind("space", "pause/resume", " "),
		togglePlay:  bind("p", "play button", "p"),
		seekBack:    bind("←", fmt.Sprintf("back %s", step), "left"),
		seekForward: bind("→", fmt.Sprintf("forward %s", step), "right"),
		mute:        bind("m", "mute", "m"),
		seek:        bind("s", "seek to", "s"),
		toggleVideo: bind("v", "video pane", "v"),

		confirm:  bind("enter", "confirm", "enter"),
		back:     bind("esc", "back", "esc"),
		filter:   bind("/", "filter", "/"),
		up:       bind("↑", "up", "up", "k"),
		down:     bind("↓", "down", "down", "j"),
		nextPage: bind("pgdn", "next page", "pgdown", "L"),
		prevPage: bind("pgup", "prev page", "pgup", "H"),
		top:      bind("g", "top", "g"),
		bottom:   bind("G", "bottom", "G"),
		showHelp: bind("?", "help", "?"),
	}
}

// help returns the short and the full help of the current state.
func (k *statefulKeymap) help() (short, full []key.Binding) {
	switch k.state {
	case browseState:
		short = []key.Binding{k.play, k.playPause, k.mute, k.seek}
		full = []key.Binding{
			k.play, k.playPause, k.togglePlay,
			k.seekBack, k.seekForward,
			k.mute, k.seek, k.toggleVideo, k.filter,
		}
		return short, full
	case filterState:
		short = []key.Binding{k.confirm, k.back}
	case seekState:
		short = []key.Binding{bind(k.confirm.Help().Key, "seek", k.confirm.Keys()...), k.back}
	case errorState:
		short = []key.Binding{k.back, k.quit}
	}
	return short, short
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

// forList leaves the arrow keys and space to the player.
func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.nextPage,
		PrevPage:             k.prevPage,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
