package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/util"
)

// refreshMsg tells the bubble that the page changed underneath it.
type refreshMsg struct{}

// statefulBubble renders the page and turns key presses into page events.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	page        *page
	containerID string
	version     int

	// containerChanged is called after the video pane is mounted or removed.
	containerChanged func()

	// components
	listC     list.Model
	seekC     textinput.Model
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	lastError     error
	width, height int
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
	b.page.setFocusText(s == filterState || s == seekState)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	listWidth := width - xx
	// leave room for the transport bar
	listHeight := height - yy - transportHeight
	b.listC.SetSize(listWidth, listHeight)
	b.listC.Help.Width = listWidth

	b.progressC.Width = listWidth / 2
	b.seekC.Width = listWidth
	b.helpC.Width = listWidth
}

// syncItems rebuilds the list when the set of cards changed.
func (b *statefulBubble) syncItems() {
	version, cards := b.page.snapshot()
	if version == b.version {
		return
	}
	b.version = version

	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = &listItem{card: c}
	}
	b.listC.SetItems(items)
}

func (b *statefulBubble) selectedCard() *card {
	item, ok := b.listC.SelectedItem().(*listItem)
	if !ok {
		return nil
	}
	return item.card
}

func newBubble(p *page, title, containerID string, seekStep float64, containerChanged func()) *statefulBubble {
	bubble := &statefulBubble{
		keymap:           newStatefulKeymap(seekStep),
		page:             p,
		containerID:      containerID,
		version:          -1,
		containerChanged: containerChanged,
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	if viper.GetBool(key.TUIShowURLs) {
		delegate.SetHeight(3)
	}
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.Accent).
		Foreground(style.Accent).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.listC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.listC.KeyMap = bubble.keymap.forList()
	bubble.listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.listC.Filter = fuzzyFilter
	bubble.listC.Title = title
	bubble.listC.Styles.Title = lipgloss.NewStyle().Foreground(style.OnAccent).Background(style.Accent).Padding(0, 1)
	bubble.listC.Styles.NoItems = paddingStyle
	bubble.listC.StatusMessageLifetime = time.Second * 3
	bubble.listC.SetStatusBarItemName("track", "tracks")
	bubble.listC.SetShowHelp(false)

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.seekC = textinput.New()
	bubble.seekC.Placeholder = "seconds"
	bubble.seekC.CharLimit = 8
	bubble.seekC.Prompt = "Seek to: "

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.syncItems()
	bubble.setState(browseState)
	return bubble
}
