package player

import (
	"math"

	"github.com/yamanami-choir/yamanami/log"
)

func (c *Controller) bindAudio() {
	on := func(event AudioEvent, fn func()) {
		c.offs = append(c.offs, c.audio.el.On(event, func() { c.sched.Post(fn) }))
	}

	on(EventLoadedMetadata, c.onAudioMetadata)
	on(EventError, c.onAudioError)
	on(EventPlay, func() { c.onAudioPlaying(true) })
	on(EventPause, func() { c.onAudioPlaying(false) })
	on(EventTimeUpdate, c.onAudioTime)
}

// owns reports whether backend events of mode may touch the surface.
func (c *Controller) owns(mode Mode) bool {
	return !c.disposed && c.mode == mode
}

func (c *Controller) onAudioMetadata() {
	if !c.owns(ModeLocalAudio) {
		return
	}
	c.showDuration(c.audio.Duration())
}

func (c *Controller) onAudioError() {
	if !c.owns(ModeLocalAudio) {
		return
	}
	log.WithFields(log.Fields{"src": c.audio.el.Src(), "card": c.currentID}).Warn("audio element reported an error")

	c.optimistic = false
	c.surface.SetPlaying(false)
	c.surface.HideControls()
	c.sync()
}

func (c *Controller) onAudioPlaying(playing bool) {
	if !c.owns(ModeLocalAudio) {
		return
	}
	c.optimistic = false
	c.surface.SetPlaying(playing)
	c.sync()
}

func (c *Controller) onAudioTime() {
	if !c.owns(ModeLocalAudio) {
		return
	}
	now := c.audio.CurrentTime()
	c.surface.SetSeekValue(int(math.Floor(now)))
	c.surface.SetCurrentLabel(FormatTime(now))
}

func (c *Controller) onEmbeddedState(s EmbeddedState) {
	if !c.owns(ModeEmbeddedVideo) {
		return
	}

	switch s {
	case StatePlaying:
		c.optimistic = false
		c.surface.SetPlaying(true)
		c.startProgress()
		c.sync()
	case StatePaused, StateEnded:
		c.optimistic = false
		c.surface.SetPlaying(false)
		c.stopProgress()
		c.sync()
	}
}

// onEmbeddedDestroyed idles the controls when the player they belong to is torn down,
// either because its container was replaced or because it disappeared.
func (c *Controller) onEmbeddedDestroyed() {
	if !c.owns(ModeEmbeddedVideo) {
		return
	}
	log.WithFields(log.Fields{"card": c.currentID}).Info("embedded player destroyed while active")

	c.stopProgress()
	c.durationPoll.Stop()
	c.mode = ModeNone
	c.active = nil
	c.optimistic = false
	c.surface.SetPlaying(false)
	c.surface.SetLoading(false)
	c.sync()
}

// startProgress samples the embedded player while it plays. Any previous sampler is stopped first.
func (c *Controller) startProgress() {
	c.stopProgress()
	c.progress = c.sched.Every(c.every, c.sampleProgress)
}

func (c *Controller) stopProgress() {
	if c.progress != nil {
		c.progress.Stop()
		c.progress = nil
	}
}

func (c *Controller) sampleProgress() {
	if !c.owns(ModeEmbeddedVideo) || !c.video.Ready() {
		c.stopProgress()
		return
	}

	now, duration := c.video.CurrentTime(), c.video.Duration()
	if now <= 0 || !finite(duration) {
		return
	}
	c.surface.SetSeekValue(int(math.Floor(now)))
	c.surface.SetCurrentLabel(FormatTime(now))
	c.surface.SetSeekMax(int(math.Floor(duration)))
}

func (c *Controller) durationAvailable() bool {
	return c.owns(ModeEmbeddedVideo) && finite(c.video.Duration())
}

func (c *Controller) durationKnown() {
	c.showDuration(c.video.Duration())
}

func (c *Controller) showDuration(duration float64) {
	c.surface.SetDurationLabel(FormatTime(duration))
	if finite(duration) {
		c.surface.SetSeekMax(int(math.Floor(duration)))
	}
	c.surface.SetLoading(false)
}
