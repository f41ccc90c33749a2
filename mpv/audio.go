package mpv

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/player"
)

var audioProperties = []string{"time-pos", "pause", "duration", "mute"}

// ErrNoSource is returned by Play when no source is set.
var ErrNoSource = errors.New("no audio source")

// Audio is an audio element backed by a video-less mpv instance.
// State is mirrored from property observers, so getters never block on IPC.
type Audio struct {
	ipc    commander
	proc   *process
	events *listener

	mu       sync.Mutex
	src      string
	now      float64
	duration float64
	paused   bool
	muted    bool
	handlers map[player.AudioEvent]map[int]func()
	nextID   int
}

// NewAudio starts the audio engine.
func NewAudio(bin string) (*Audio, error) {
	proc, err := spawn(bin, "--no-video", "--keep-open=no")
	if err != nil {
		return nil, err
	}

	a := newAudio(proc.client)
	a.proc = proc

	a.events, err = listen(proc.socket, audioProperties, a.handle)
	if err != nil {
		_ = proc.Close()
		return nil, err
	}

	// mpv starts unpaused; the element contract starts paused.
	if err := a.ipc.set("pause", true); err != nil {
		a.Close()
		return nil, fmt.Errorf("pause idle mpv: %w", err)
	}
	return a, nil
}

func newAudio(ipc commander) *Audio {
	return &Audio{
		ipc:      ipc,
		duration: math.NaN(),
		paused:   true,
		handlers: make(map[player.AudioEvent]map[int]func()),
	}
}

// Close stops the engine. The Audio must not be used afterwards.
func (a *Audio) Close() {
	if a.events != nil {
		a.events.Close()
	}
	if a.proc != nil {
		if err := a.proc.Close(); err != nil {
			log.Warnf("closing audio engine: %v", err)
		}
	}
}

func (a *Audio) Src() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.src
}

// SetSrc replaces the source. An empty source unloads the current file.
func (a *Audio) SetSrc(src string) {
	a.mu.Lock()
	a.src = src
	a.now = 0
	a.duration = math.NaN()
	a.mu.Unlock()

	if src == "" {
		if _, err := a.ipc.command("stop"); err != nil {
			log.Warnf("unloading audio: %v", err)
		}
	}
}

// Load starts fetching the current source, paused.
func (a *Audio) Load() {
	src := a.Src()
	if src == "" {
		return
	}

	target, err := sanitizeMediaTarget(src)
	if err != nil {
		log.WithFields(log.Fields{"src": src, "error": err}).Warn("refusing audio source")
		a.emit(player.EventError)
		return
	}

	if err := a.ipc.set("pause", true); err != nil {
		log.Warnf("pausing before load: %v", err)
	}
	a.setPaused(true)

	if _, err := a.ipc.command("loadfile", target, "replace"); err != nil {
		log.WithFields(log.Fields{"src": src, "error": err}).Warn("loading audio")
		a.emit(player.EventError)
	}
}

// Play resumes playback. The returned error is the rejection of the request.
func (a *Audio) Play() error {
	if a.Src() == "" {
		return ErrNoSource
	}
	if err := a.ipc.set("pause", false); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	a.setPaused(false)
	return nil
}

func (a *Audio) Pause() {
	if err := a.ipc.set("pause", true); err != nil {
		log.Warnf("pause: %v", err)
		return
	}
	a.setPaused(true)
}

func (a *Audio) CurrentTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now
}

func (a *Audio) SetCurrentTime(seconds float64) {
	if _, err := a.ipc.command("seek", seconds, "absolute"); err != nil {
		log.Warnf("seek: %v", err)
		return
	}
	a.mu.Lock()
	a.now = seconds
	a.mu.Unlock()
}

func (a *Audio) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

func (a *Audio) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

func (a *Audio) SetMuted(muted bool) {
	if err := a.ipc.set("mute", muted); err != nil {
		log.Warnf("mute: %v", err)
		return
	}
	a.mu.Lock()
	a.muted = muted
	a.mu.Unlock()
}

func (a *Audio) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// On implements player.AudioElement. Callbacks run on the listener goroutine.
func (a *Audio) On(event player.AudioEvent, fn func()) (off func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handlers[event] == nil {
		a.handlers[event] = make(map[int]func())
	}
	a.nextID++
	id := a.nextID
	a.handlers[event][id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.handlers[event], id)
	}
}

func (a *Audio) emit(event player.AudioEvent) {
	a.mu.Lock()
	fns := make([]func(), 0, len(a.handlers[event]))
	for _, fn := range a.handlers[event] {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// setPaused records the pause state and emits play or pause when it changes.
func (a *Audio) setPaused(paused bool) {
	a.mu.Lock()
	changed := a.paused != paused
	a.paused = paused
	a.mu.Unlock()

	if !changed {
		return
	}
	if paused {
		a.emit(player.EventPause)
	} else {
		a.emit(player.EventPlay)
	}
}

func (a *Audio) handle(ev Event) {
	switch ev.Kind {
	case "property-change":
		a.handleProperty(ev.Name, ev.Data)
	case "end-file":
		switch ev.Reason {
		case "eof":
			a.setPaused(true)
		case "error":
			a.setPaused(true)
			a.emit(player.EventError)
		}
	}
}

func (a *Audio) handleProperty(name string, data interface{}) {
	switch name {
	case "time-pos":
		if v, ok := asFloat(data); ok {
			a.mu.Lock()
			a.now = v
			a.mu.Unlock()
			a.emit(player.EventTimeUpdate)
		}
	case "duration":
		if v, ok := asFloat(data); ok && v > 0 {
			a.mu.Lock()
			a.duration = v
			a.mu.Unlock()
			a.emit(player.EventLoadedMetadata)
		}
	case "pause":
		if v, ok := asBool(data); ok && a.Src() != "" {
			a.setPaused(v)
		}
	case "mute":
		if v, ok := asBool(data); ok {
			a.mu.Lock()
			a.muted = v
			a.mu.Unlock()
		}
	}
}
