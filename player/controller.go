package player

import (
	"errors"
	"time"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/loop"
	"github.com/yamanami-choir/yamanami/media"
	"github.com/yamanami-choir/yamanami/poll"
)

const (
	DefaultContainerID  = "youtube-player"
	DefaultPollInterval = 100 * time.Millisecond
	DefaultSeekStep     = 5.0
)

// Options wires a Controller to its page and engines.
type Options struct {
	Scheduler loop.Scheduler
	Document  Document
	Surface   Surface
	Audio     AudioElement
	Embedded  EmbeddedFactory
	Loader    ScriptLoader

	// Origin resolves relative audio URLs.
	Origin string
	// ContainerID is the element id hosting the embedded player.
	ContainerID string
	// PollInterval drives every retry and the embedded progress sampler.
	PollInterval time.Duration
	// SeekStep is the arrow-key seek distance in seconds.
	SeekStep float64
}

// Controller is the dual-source playback controller. See the package documentation.
type Controller struct {
	sched   loop.Scheduler
	doc     Document
	surface Surface
	origin  string
	step    float64
	every   time.Duration

	audio *audioBackend
	video *embeddedBackend
	boot  *bootstrapper

	mode   Mode
	active Backend

	// currentID is the card that most recently requested playback.
	currentID string
	// optimistic keeps the clicked card checked until the backend reports its first state.
	optimistic bool

	progress     loop.Timer
	durationPoll *poll.Poll
	pending      *poll.Poll

	offs        []func()
	initialized bool
	disposed    bool
}

// New validates opts and builds an idle controller. Call Init to attach it to the page.
func New(opts Options) (*Controller, error) {
	switch {
	case opts.Scheduler == nil:
		return nil, errors.New("player: scheduler is required")
	case opts.Document == nil:
		return nil, errors.New("player: document is required")
	case opts.Surface == nil:
		return nil, errors.New("player: surface is required")
	case opts.Audio == nil:
		return nil, errors.New("player: audio element is required")
	case opts.Embedded == nil:
		return nil, errors.New("player: embedded player factory is required")
	}

	if opts.ContainerID == "" {
		opts.ContainerID = DefaultContainerID
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = DefaultSeekStep
	}

	c := &Controller{
		sched:   opts.Scheduler,
		doc:     opts.Document,
		surface: opts.Surface,
		origin:  opts.Origin,
		step:    opts.SeekStep,
		every:   opts.PollInterval,
		audio:   newAudioBackend(opts.Audio, opts.Origin),
	}

	c.boot = &bootstrapper{
		sched:         opts.Scheduler,
		doc:           opts.Document,
		loader:        opts.Loader,
		factory:       opts.Embedded,
		containerID:   opts.ContainerID,
		interval:      opts.PollInterval,
		onStateChange: c.onEmbeddedState,
		onDestroyed:   c.onEmbeddedDestroyed,
	}
	c.video = &embeddedBackend{boot: c.boot}

	return c, nil
}

// Mode returns the backend that currently owns the controls.
func (c *Controller) Mode() Mode { return c.mode }

// BootState returns the embedded player's lifecycle stage.
func (c *Controller) BootState() BootState { return c.boot.State() }

// Init attaches the controller to the page: native audio events, keyboard shortcuts,
// the control surface, every card present now and the embedded player bootstrap.
func (c *Controller) Init() {
	if c.initialized || c.disposed {
		return
	}
	c.initialized = true

	c.bindAudio()
	c.offs = append(c.offs, c.doc.OnKeyDown(func(ev KeyEvent) {
		c.sched.Post(func() { c.KeyDown(ev) })
	}))
	c.Bind()

	log.WithFields(log.Fields{"container": c.boot.containerID}).Info("player initialized")
}

// Bind attaches click handlers to cards that do not have one yet and re-checks the embedded
// player's container. It is safe to call after every page change and returns the number of
// newly bound cards.
func (c *Controller) Bind() int {
	if c.disposed {
		return 0
	}

	c.bindSurface()

	bound := 0
	for _, card := range c.doc.Cards() {
		if card.Bound() {
			continue
		}
		card.MarkBound()

		card := card
		card.OnClick(func() {
			c.sched.Post(func() { c.Click(card) })
		})
		bound++
	}

	c.boot.Ensure()
	c.sync()

	if bound > 0 {
		log.WithFields(log.Fields{"cards": bound}).Debug("bound cards")
	}
	return bound
}

// Dispose stops every timer, silences the active backend and detaches from the page.
// The controller ignores all events afterwards.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	c.stopProgress()
	c.durationPoll.Stop()
	c.pending.Stop()

	if c.active != nil {
		c.active.Stop()
	}
	c.boot.reset()

	for _, off := range c.offs {
		if off != nil {
			off()
		}
	}
	c.offs = nil
	c.mode = ModeNone
	c.active = nil

	log.Info("player disposed")
}

func (c *Controller) resolve(card Card) (media.Reference, bool) {
	return media.Resolve(card.AudioURL(), card.YoutubeID(), c.origin)
}

func (c *Controller) backendFor(kind media.Kind) Backend {
	if kind == media.KindEmbedded {
		return c.video
	}
	return c.audio
}

// Click handles a press on card. It either toggles the media already loaded or switches to the card's media.
func (c *Controller) Click(card Card) {
	if c.disposed {
		return
	}

	ref, ok := c.resolve(card)
	if !ok {
		return
	}

	c.surface.Reveal()
	c.pending.Stop()

	if ref.Kind() == media.KindEmbedded && !c.video.Ready() {
		log.WithFields(log.Fields{"card": card.ID(), "boot": c.boot.State()}).Info("embedded player not ready, deferring click")
		c.boot.Ensure()
		c.pending = poll.Until(c.sched, c.every, c.bootSettled, func() {
			if !c.video.Ready() {
				log.WithFields(log.Fields{"card": card.ID()}).Info("embedded player could not start, dropping click")
				return
			}
			c.Click(card)
		})
		return
	}

	if c.mode == modeOf(ref.Kind()) && c.active != nil && c.active.Matches(ref) {
		c.toggle()
		return
	}

	c.switchTo(card, ref)
}

// bootSettled holds once the embedded player is ready or its bootstrap gave up, so a click
// never waits on a missing container.
func (c *Controller) bootSettled() bool {
	return c.video.Ready() || c.boot.State() == BootUninitialized
}

// switchTo silences the previous backend, then loads ref on its own backend.
// The mode changes before Load so callbacks triggered by the load are attributed to the new backend.
func (c *Controller) switchTo(card Card, ref media.Reference) {
	next := c.backendFor(ref.Kind())

	c.stopProgress()
	c.durationPoll.Stop()
	if c.active != nil {
		c.active.Stop()
	}

	log.WithFields(log.Fields{"from": c.mode, "to": next.Mode(), "media": ref.String(), "card": card.ID()}).Info("switching media")

	c.mode = next.Mode()
	c.active = next
	c.currentID = card.ID()
	c.optimistic = true

	c.surface.SetLoading(true)
	if next.Mode() == ModeLocalAudio {
		c.surface.SetCurrentLabel(FormatTime(0))
		c.surface.SetDurationLabel(FormatTime(0))
	}

	if err := next.Load(ref); err != nil {
		c.playFailed(err)
		return
	}

	if next.Mode() == ModeEmbeddedVideo {
		c.durationPoll = poll.Until(c.sched, c.every, c.durationAvailable, c.durationKnown)
	}

	c.surface.SetPlaying(true)
	c.sync()
	c.play()
}

func (c *Controller) toggle() {
	if c.active.IsPlaying() {
		c.active.Pause()
		return
	}
	c.play()
}

func (c *Controller) play() {
	if err := c.active.Play(); err != nil {
		c.playFailed(err)
	}
}

// playFailed leaves the surface idle and unchecks the card that asked for playback. There is no retry.
func (c *Controller) playFailed(err error) {
	log.WithFields(log.Fields{"mode": c.mode, "card": c.currentID, "error": err}).Warn("playback did not start")

	c.optimistic = false
	c.surface.SetPlaying(false)
	c.surface.SetLoading(false)
	c.sync()
}

// sync recomputes every card from the live backend state. At most one card ends up checked:
// the most recently clicked card when it matches, otherwise the first matching card.
func (c *Controller) sync() {
	cards := c.doc.Cards()

	var chosen Card
	if c.active != nil {
		for _, card := range cards {
			ref, ok := c.resolve(card)
			if !ok || !c.active.Matches(ref) {
				continue
			}
			if chosen == nil || (card.ID() == c.currentID && chosen.ID() != c.currentID) {
				chosen = card
			}
		}
	}

	on := chosen != nil && (c.optimistic || c.active.IsPlaying())

	for _, card := range cards {
		if _, ok := c.resolve(card); !ok {
			continue
		}
		checked := on && card == chosen
		card.SetChecked(checked)
		card.SetActive(checked)
	}
}
