package tui

import (
	"sync"

	"github.com/yamanami-choir/yamanami/player"
)

// page is the terminal rendition of the site page the controller is mounted on.
// The controller touches it from the loop goroutine and the bubble reads it while
// rendering, so all state sits behind one mutex. Callbacks are always invoked with
// the mutex released.
type page struct {
	mu sync.Mutex

	cards      []*card
	version    int
	containers map[string]*element
	focusText  bool
	keys       map[int]func(player.KeyEvent)
	nextKey    int

	surface *surface
	changed func()
}

func newPage(changed func()) *page {
	p := &page{
		containers: make(map[string]*element),
		keys:       make(map[int]func(player.KeyEvent)),
		changed:    changed,
	}
	p.surface = &surface{page: p}
	return p
}

func (p *page) notify() {
	if p.changed != nil {
		p.changed()
	}
}

// Cards implements player.Document.
func (p *page) Cards() []player.Card {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]player.Card, len(p.cards))
	for i, c := range p.cards {
		out[i] = c
	}
	return out
}

// Container implements player.Document.
func (p *page) Container(id string) (player.Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, ok := p.containers[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// FocusInText implements player.Document.
func (p *page) FocusInText() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focusText
}

// OnKeyDown implements player.Document.
func (p *page) OnKeyDown(fn func(player.KeyEvent)) (off func()) {
	p.mu.Lock()
	id := p.nextKey
	p.nextKey++
	p.keys[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.keys, id)
		p.mu.Unlock()
	}
}

func (p *page) setFocusText(focused bool) {
	p.mu.Lock()
	p.focusText = focused
	p.mu.Unlock()
}

// press delivers a key press to every listener.
func (p *page) press(ev player.KeyEvent) {
	p.mu.Lock()
	listeners := make([]func(player.KeyEvent), 0, len(p.keys))
	for _, fn := range p.keys {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// mount inserts a fresh, attached container under id, detaching any previous one.
func (p *page) mount(id string) {
	p.mu.Lock()
	if old, ok := p.containers[id]; ok {
		old.attached = false
	}
	p.containers[id] = &element{page: p, attached: true}
	p.mu.Unlock()
	p.notify()
}

// unmount removes the container under id from the page.
func (p *page) unmount(id string) {
	p.mu.Lock()
	if old, ok := p.containers[id]; ok {
		old.attached = false
		delete(p.containers, id)
	}
	p.mu.Unlock()
	p.notify()
}

func (p *page) mounted(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.containers[id]
	return ok
}

// setCards replaces the cards on the page. Cards that survive a reload keep their
// identity, and with it their bound click handler and checked state.
func (p *page) setCards(specs []cardSpec) {
	p.mu.Lock()
	existing := make(map[cardSpec]*card, len(p.cards))
	for _, c := range p.cards {
		existing[c.spec] = c
	}

	cards := make([]*card, 0, len(specs))
	for _, spec := range specs {
		if c, ok := existing[spec]; ok {
			cards = append(cards, c)
			delete(existing, spec)
			continue
		}
		cards = append(cards, &card{page: p, spec: spec})
	}
	p.cards = cards
	p.version++
	p.mu.Unlock()
	p.notify()
}

// element is a node of the page. Its identity is its pointer.
type element struct {
	page     *page
	attached bool
}

// Attached implements player.Element.
func (e *element) Attached() bool {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.attached
}

// cardSpec is the static content of a card.
type cardSpec struct {
	ID          string
	Title       string
	Description string
	Date        string
	Duration    string
	AudioURL    string
	YoutubeID   string
	Source      string
}

// card implements player.Card.
type card struct {
	page *page
	spec cardSpec

	checked bool
	active  bool
	bound   bool
	clicks  []func()
}

func (c *card) ID() string        { return c.spec.ID }
func (c *card) AudioURL() string  { return c.spec.AudioURL }
func (c *card) YoutubeID() string { return c.spec.YoutubeID }

func (c *card) Checked() bool {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return c.checked
}

func (c *card) SetChecked(checked bool) {
	c.page.mu.Lock()
	changed := c.checked != checked
	c.checked = checked
	c.page.mu.Unlock()
	if changed {
		c.page.notify()
	}
}

func (c *card) SetActive(active bool) {
	c.page.mu.Lock()
	changed := c.active != active
	c.active = active
	c.page.mu.Unlock()
	if changed {
		c.page.notify()
	}
}

func (c *card) Bound() bool {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return c.bound
}

func (c *card) MarkBound() {
	c.page.mu.Lock()
	c.bound = true
	c.page.mu.Unlock()
}

func (c *card) OnClick(fn func()) {
	c.page.mu.Lock()
	c.clicks = append(c.clicks, fn)
	c.page.mu.Unlock()
}

func (c *card) click() {
	c.page.mu.Lock()
	handlers := append([]func(){}, c.clicks...)
	c.page.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// status returns the checked and active flags together.
func (c *card) status() (checked, active bool) {
	c.page.mu.Lock()
	defer c.page.mu.Unlock()
	return c.checked, c.active
}

// surface implements player.Surface: the transport bar under the card list.
type surface struct {
	page *page

	bound    bool
	revealed bool
	playing  bool
	loading  bool
	controls bool
	muted    bool
	seekMax  int
	seekVal  int
	current  string
	duration string

	onTogglePlay func()
	onToggleMute func(bool)
	onSeekInput  func(string)
	onSeekCommit func(string)
}

// surfaceView is a consistent copy of the surface for rendering.
type surfaceView struct {
	Revealed, Playing, Loading, Controls, Muted bool
	SeekMax, SeekValue                          int
	Current, Duration                           string
}

func (s *surface) set(fn func()) {
	s.page.mu.Lock()
	fn()
	s.page.mu.Unlock()
	s.page.notify()
}

func (s *surface) Bound() bool {
	s.page.mu.Lock()
	defer s.page.mu.Unlock()
	return s.bound
}

func (s *surface) MarkBound() {
	s.page.mu.Lock()
	s.bound = true
	s.page.mu.Unlock()
}

func (s *surface) Reveal()                     { s.set(func() { s.revealed = true }) }
func (s *surface) SetPlaying(playing bool)     { s.set(func() { s.playing = playing }) }
func (s *surface) SetSeekMax(max int)          { s.set(func() { s.seekMax = max }) }
func (s *surface) SetSeekValue(value int)      { s.set(func() { s.seekVal = value }) }
func (s *surface) SetCurrentLabel(l string)    { s.set(func() { s.current = l }) }
func (s *surface) SetDurationLabel(l string)   { s.set(func() { s.duration = l }) }
func (s *surface) HideControls()               { s.set(func() { s.loading, s.controls = false, false }) }
func (s *surface) OnTogglePlay(fn func())      { s.set(func() { s.onTogglePlay = fn }) }
func (s *surface) OnToggleMute(fn func(bool))  { s.set(func() { s.onToggleMute = fn }) }
func (s *surface) OnSeekInput(fn func(string)) { s.set(func() { s.onSeekInput = fn }) }

func (s *surface) OnSeekCommit(fn func(string)) { s.set(func() { s.onSeekCommit = fn }) }

func (s *surface) SetLoading(loading bool) {
	s.set(func() { s.loading, s.controls = loading, !loading })
}

func (s *surface) view() surfaceView {
	s.page.mu.Lock()
	defer s.page.mu.Unlock()
	return surfaceView{
		Revealed:  s.revealed,
		Playing:   s.playing,
		Loading:   s.loading,
		Controls:  s.controls,
		Muted:     s.muted,
		SeekMax:   s.seekMax,
		SeekValue: s.seekVal,
		Current:   s.current,
		Duration:  s.duration,
	}
}

// togglePlay presses the play button.
func (s *surface) togglePlay() {
	s.page.mu.Lock()
	fn := s.onTogglePlay
	s.page.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// toggleMute flips the mute checkbox and reports its new state.
func (s *surface) toggleMute() {
	s.page.mu.Lock()
	s.muted = !s.muted
	muted, fn := s.muted, s.onToggleMute
	s.page.mu.Unlock()
	s.page.notify()
	if fn != nil {
		fn(muted)
	}
}

// seekInput reports the slider while it is dragged.
func (s *surface) seekInput(value string) {
	s.page.mu.Lock()
	fn := s.onSeekInput
	s.page.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// seekCommit reports the slider once it is released.
func (s *surface) seekCommit(value string) {
	s.page.mu.Lock()
	fn := s.onSeekCommit
	s.page.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// snapshot returns the card list together with a counter that changes whenever the list does.
func (p *page) snapshot() (int, []*card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version, append([]*card(nil), p.cards...)
}
