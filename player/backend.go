package player

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/media"
)

// ErrNotReady is returned for embedded player calls made before its ready notification.
var ErrNotReady = errors.New("embedded player is not ready")

// Backend is one playback engine behind the shared transport controls.
type Backend interface {
	Mode() Mode
	// Load replaces the current media. It does not start playback.
	Load(ref media.Reference) error
	Play() error
	Pause()
	// Stop halts playback and releases the current media so the backend stays silent.
	Stop()
	Mute()
	Unmute()
	Seek(seconds float64)
	CurrentTime() float64
	Duration() float64
	IsPlaying() bool
	// Matches reports whether ref is the media currently loaded.
	Matches(ref media.Reference) bool
}

type audioBackend struct {
	el     AudioElement
	origin string
}

func newAudioBackend(el AudioElement, origin string) *audioBackend {
	return &audioBackend{el: el, origin: origin}
}

func (a *audioBackend) Mode() Mode { return ModeLocalAudio }

func (a *audioBackend) Load(ref media.Reference) error {
	if ref.Kind() != media.KindLocal {
		return fmt.Errorf("audio backend cannot load %s", ref)
	}
	a.el.SetSrc(ref.LocalURL)
	a.el.Load()
	return nil
}

func (a *audioBackend) Play() error { return a.el.Play() }
func (a *audioBackend) Pause()      { a.el.Pause() }

func (a *audioBackend) Stop() {
	a.el.Pause()
	a.el.SetSrc("")
}

func (a *audioBackend) Mute()                { a.el.SetMuted(true) }
func (a *audioBackend) Unmute()              { a.el.SetMuted(false) }
func (a *audioBackend) Seek(seconds float64) { a.el.SetCurrentTime(seconds) }
func (a *audioBackend) CurrentTime() float64 { return a.el.CurrentTime() }
func (a *audioBackend) Duration() float64    { return a.el.Duration() }
func (a *audioBackend) IsPlaying() bool      { return !a.el.Paused() }

func (a *audioBackend) Matches(ref media.Reference) bool {
	return ref.Kind() == media.KindLocal && media.SameLocal(a.el.Src(), ref.LocalURL, a.origin)
}

// embeddedBackend forwards to whatever player the bootstrapper currently holds.
// Every call is guarded: failures and panics are logged and degrade to a zero result.
type embeddedBackend struct {
	boot *bootstrapper
}

func (e *embeddedBackend) Mode() Mode  { return ModeEmbeddedVideo }
func (e *embeddedBackend) Ready() bool { return e.boot.Player() != nil }

func (e *embeddedBackend) do(op string, fn func(p EmbeddedPlayer) error) (err error) {
	p := e.boot.Player()
	if p == nil {
		return ErrNotReady
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", op, r)
		}
		if err != nil {
			log.WithFields(log.Fields{"op": op, "error": err}).Warn("embedded player call failed")
		}
	}()

	return fn(p)
}

func (e *embeddedBackend) Load(ref media.Reference) error {
	if ref.Kind() != media.KindEmbedded {
		return fmt.Errorf("embedded backend cannot load %s", ref)
	}
	return e.do("load", func(p EmbeddedPlayer) error { return p.LoadVideoByID(ref.EmbeddedID) })
}

func (e *embeddedBackend) Play() error {
	return e.do("play", func(p EmbeddedPlayer) error { return p.Play() })
}

func (e *embeddedBackend) Pause() {
	_ = e.do("pause", func(p EmbeddedPlayer) error { return p.Pause() })
}

func (e *embeddedBackend) Stop() {
	_ = e.do("stop", func(p EmbeddedPlayer) error { return p.Stop() })
}

func (e *embeddedBackend) Mute() {
	_ = e.do("mute", func(p EmbeddedPlayer) error { return p.Mute() })
}

func (e *embeddedBackend) Unmute() {
	_ = e.do("unmute", func(p EmbeddedPlayer) error { return p.UnMute() })
}

func (e *embeddedBackend) Seek(seconds float64) {
	_ = e.do("seek", func(p EmbeddedPlayer) error { return p.SeekTo(seconds, true) })
}

func (e *embeddedBackend) CurrentTime() (t float64) {
	_ = e.do("current time", func(p EmbeddedPlayer) (err error) {
		t, err = p.CurrentTime()
		return err
	})
	return t
}

func (e *embeddedBackend) Duration() (d float64) {
	_ = e.do("duration", func(p EmbeddedPlayer) (err error) {
		d, err = p.Duration()
		return err
	})
	return d
}

func (e *embeddedBackend) IsPlaying() bool {
	var state EmbeddedState
	err := e.do("state", func(p EmbeddedPlayer) (err error) {
		state, err = p.State()
		return err
	})
	return err == nil && state == StatePlaying
}

// Matches uses a containment check against the reported video URL, so an id that
// is a substring of the loaded one also matches.
func (e *embeddedBackend) Matches(ref media.Reference) bool {
	if ref.Kind() != media.KindEmbedded {
		return false
	}

	var current string
	err := e.do("video url", func(p EmbeddedPlayer) (err error) {
		current, err = p.VideoURL()
		return err
	})
	return err == nil && current != "" && strings.Contains(current, ref.EmbeddedID)
}
