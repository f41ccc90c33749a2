package player

import (
	"errors"
	"fmt"

	"github.com/yamanami-choir/yamanami/loop"
)

const testOrigin = "https://yamanami.example/"

type journal []string

func (j *journal) add(format string, args ...any) {
	*j = append(*j, fmt.Sprintf(format, args...))
}

func (j journal) index(entry string) int {
	for i, e := range j {
		if e == entry {
			return i
		}
	}
	return -1
}

type fakeElement struct{ attached bool }

func (e *fakeElement) Attached() bool { return e.attached }

type fakeCard struct {
	id, audioURL, youtubeID string
	checked, active, bound  bool
	handlers                []func()
}

func (c *fakeCard) ID() string           { return c.id }
func (c *fakeCard) AudioURL() string     { return c.audioURL }
func (c *fakeCard) YoutubeID() string    { return c.youtubeID }
func (c *fakeCard) Checked() bool        { return c.checked }
func (c *fakeCard) SetChecked(v bool)    { c.checked = v }
func (c *fakeCard) SetActive(v bool)     { c.active = v }
func (c *fakeCard) Bound() bool          { return c.bound }
func (c *fakeCard) MarkBound()           { c.bound = true }
func (c *fakeCard) OnClick(fn func())    { c.handlers = append(c.handlers, fn) }
func (c *fakeCard) Click() {
	for _, fn := range c.handlers {
		fn()
	}
}

type fakeDoc struct {
	cards      []Card
	containers map[string]*fakeElement
	focusText  bool
	keys       []func(KeyEvent)
}

func (d *fakeDoc) Cards() []Card { return d.cards }

func (d *fakeDoc) Container(id string) (Element, bool) {
	el, ok := d.containers[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (d *fakeDoc) FocusInText() bool { return d.focusText }

func (d *fakeDoc) OnKeyDown(fn func(KeyEvent)) func() {
	d.keys = append(d.keys, fn)
	i := len(d.keys) - 1
	return func() { d.keys[i] = nil }
}

func (d *fakeDoc) press(ev KeyEvent) {
	for _, fn := range d.keys {
		if fn != nil {
			fn(ev)
		}
	}
}

type fakeSurface struct {
	bound, revealed, playing, loading, hidden bool
	max, value                                int
	current, duration                         string

	togglePlay func()
	toggleMute func(bool)
	seekInput  func(string)
	seekCommit func(string)
}

func (s *fakeSurface) Bound() bool               { return s.bound }
func (s *fakeSurface) MarkBound()                { s.bound = true }
func (s *fakeSurface) Reveal()                   { s.revealed = true }
func (s *fakeSurface) SetPlaying(v bool)         { s.playing = v }
func (s *fakeSurface) SetSeekMax(v int)          { s.max = v }
func (s *fakeSurface) SetSeekValue(v int)        { s.value = v }
func (s *fakeSurface) SetCurrentLabel(v string)  { s.current = v }
func (s *fakeSurface) SetDurationLabel(v string) { s.duration = v }
func (s *fakeSurface) SetLoading(v bool)         { s.loading, s.hidden = v, false }
func (s *fakeSurface) HideControls()             { s.loading, s.hidden = false, true }
func (s *fakeSurface) OnTogglePlay(fn func())    { s.togglePlay = fn }
func (s *fakeSurface) OnToggleMute(fn func(bool)) {
	s.toggleMute = fn
}
func (s *fakeSurface) OnSeekInput(fn func(string))  { s.seekInput = fn }
func (s *fakeSurface) OnSeekCommit(fn func(string)) { s.seekCommit = fn }

type fakeAudio struct {
	j        *journal
	src      string
	now, dur float64
	muted    bool
	paused   bool
	playErr  error
	seeks    []float64
	handlers map[AudioEvent][]func()
}

func newFakeAudio(j *journal) *fakeAudio {
	return &fakeAudio{j: j, paused: true, handlers: make(map[AudioEvent][]func())}
}

func (a *fakeAudio) Src() string          { return a.src }
func (a *fakeAudio) CurrentTime() float64 { return a.now }
func (a *fakeAudio) Duration() float64    { return a.dur }
func (a *fakeAudio) Muted() bool          { return a.muted }
func (a *fakeAudio) SetMuted(v bool)      { a.muted = v }
func (a *fakeAudio) Paused() bool         { return a.paused }
func (a *fakeAudio) Load()                { a.j.add("audio:load") }

func (a *fakeAudio) SetSrc(src string) {
	a.j.add("audio:src:%s", src)
	a.src = src
}

func (a *fakeAudio) SetCurrentTime(v float64) {
	a.seeks = append(a.seeks, v)
	a.now = v
}

func (a *fakeAudio) Play() error {
	a.j.add("audio:play")
	if a.playErr != nil {
		return a.playErr
	}
	a.paused = false
	a.emit(EventPlay)
	return nil
}

func (a *fakeAudio) Pause() {
	a.j.add("audio:pause")
	if a.paused {
		return
	}
	a.paused = true
	a.emit(EventPause)
}

func (a *fakeAudio) On(event AudioEvent, fn func()) func() {
	a.handlers[event] = append(a.handlers[event], fn)
	return func() { delete(a.handlers, event) }
}

func (a *fakeAudio) emit(event AudioEvent) {
	for _, fn := range a.handlers[event] {
		fn()
	}
}

type fakeVideo struct {
	j      *journal
	el     *fakeElement
	events EmbeddedEvents

	id         string
	state      EmbeddedState
	now, dur   float64
	muted      bool
	seeks      []float64
	loads      int
	urlErr     error
	urlPanic   bool
	destroyed  bool
	destroyErr error
}

func (v *fakeVideo) Play() error {
	v.j.add("video:play")
	v.state = StatePlaying
	v.events.OnStateChange(StatePlaying)
	return nil
}

func (v *fakeVideo) Pause() error {
	v.j.add("video:pause")
	v.state = StatePaused
	v.events.OnStateChange(StatePaused)
	return nil
}

func (v *fakeVideo) Stop() error {
	v.j.add("video:stop")
	v.state = StateUnstarted
	return nil
}

func (v *fakeVideo) Mute() error   { v.muted = true; return nil }
func (v *fakeVideo) UnMute() error { v.muted = false; return nil }

func (v *fakeVideo) SeekTo(secs float64, _ bool) error {
	v.seeks = append(v.seeks, secs)
	v.now = secs
	return nil
}

func (v *fakeVideo) CurrentTime() (float64, error)  { return v.now, nil }
func (v *fakeVideo) Duration() (float64, error)     { return v.dur, nil }
func (v *fakeVideo) State() (EmbeddedState, error)  { return v.state, nil }
func (v *fakeVideo) Element() Element               { return v.el }

func (v *fakeVideo) VideoURL() (string, error) {
	if v.urlPanic {
		panic("player internals are inconsistent")
	}
	if v.urlErr != nil {
		return "", v.urlErr
	}
	if v.id == "" {
		return "", nil
	}
	return "https://www.youtube.com/watch?v=" + v.id, nil
}

func (v *fakeVideo) LoadVideoByID(id string) error {
	v.j.add("video:load:%s", id)
	v.loads++
	v.id = id
	v.state = StateUnstarted
	return nil
}

func (v *fakeVideo) Destroy() error {
	v.destroyed = true
	v.el.attached = false
	return v.destroyErr
}

type fakeFactory struct {
	j       *journal
	created []*fakeVideo
	err     error
}

func (f *fakeFactory) New(_ Element, events EmbeddedEvents) (EmbeddedPlayer, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := &fakeVideo{j: f.j, el: &fakeElement{attached: true}, events: events}
	f.created = append(f.created, v)
	return v, nil
}

func (f *fakeFactory) last() *fakeVideo {
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

type fakeLoader struct{ available bool }

func (l *fakeLoader) Available() bool { return l.available }

var errRejected = errors.New("play request was rejected")

type harness struct {
	m       *loop.Manual
	j       *journal
	doc     *fakeDoc
	surface *fakeSurface
	audio   *fakeAudio
	factory *fakeFactory
	loader  *fakeLoader
	c       *Controller

	a, b *fakeCard
}

// newHarness builds an initialized controller with an audio card A and a video card B.
// The embedded player is constructed but not yet ready. Tweaks run before Init.
func newHarness(tweaks ...func(h *harness)) *harness {
	j := &journal{}
	h := &harness{
		m:       loop.NewManual(),
		j:       j,
		surface: &fakeSurface{},
		audio:   newFakeAudio(j),
		factory: &fakeFactory{j: j},
		loader:  &fakeLoader{available: true},
		a:       &fakeCard{id: "a", audioURL: "/a.mp3"},
		b:       &fakeCard{id: "b", youtubeID: "xyz12345678"},
	}
	h.doc = &fakeDoc{
		cards:      []Card{h.a, h.b},
		containers: map[string]*fakeElement{DefaultContainerID: {attached: true}},
	}

	c, err := New(Options{
		Scheduler: h.m,
		Document:  h.doc,
		Surface:   h.surface,
		Audio:     h.audio,
		Embedded:  h.factory,
		Loader:    h.loader,
		Origin:    testOrigin,
	})
	if err != nil {
		panic(err)
	}
	h.c = c
	for _, tweak := range tweaks {
		tweak(h)
	}
	c.Init()
	h.m.Flush()
	return h
}

// ready delivers the embedded player's ready notification.
func (h *harness) ready() *harness {
	h.factory.last().events.OnReady()
	h.m.Flush()
	return h
}

func (h *harness) click(card *fakeCard) {
	card.Click()
	h.m.Flush()
}

func (h *harness) checked() []string {
	var ids []string
	for _, card := range h.doc.cards {
		if card.Checked() {
			ids = append(ids, card.ID())
		}
	}
	return ids
}

func (h *harness) video() *fakeVideo { return h.factory.last() }

func withoutLoader(h *harness) { h.loader.available = false }

func withDetachedContainer(h *harness) { h.doc.containers[DefaultContainerID].attached = false }

func withFailingFactory(h *harness) { h.factory.err = errors.New("cannot create player") }
