// Package player implements the dual-source playback controller.
//
// One Controller owns a shared control surface and a set of playable cards, and routes every
// user action to whichever of its two backends (local audio or embedded video) currently owns
// playback. All exported Controller methods must run on the goroutine of its loop.Scheduler.
package player

import "github.com/yamanami-choir/yamanami/media"

// Mode tells which backend currently owns the transport controls.
type Mode int

const (
	ModeNone Mode = iota
	ModeLocalAudio
	ModeEmbeddedVideo
)

func (m Mode) String() string {
	switch m {
	case ModeLocalAudio:
		return "local-audio"
	case ModeEmbeddedVideo:
		return "embedded-video"
	default:
		return "none"
	}
}

func modeOf(kind media.Kind) Mode {
	switch kind {
	case media.KindLocal:
		return ModeLocalAudio
	case media.KindEmbedded:
		return ModeEmbeddedVideo
	default:
		return ModeNone
	}
}
