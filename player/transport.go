package player

import (
	"math"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/util"
)

func (c *Controller) bindSurface() {
	if c.surface.Bound() {
		return
	}
	c.surface.MarkBound()

	c.surface.OnTogglePlay(func() { c.sched.Post(c.TogglePlay) })
	c.surface.OnToggleMute(func(muted bool) { c.sched.Post(func() { c.ToggleMute(muted) }) })
	c.surface.OnSeekInput(func(v string) { c.sched.Post(func() { c.SeekInput(v) }) })
	c.surface.OnSeekCommit(func(v string) { c.sched.Post(func() { c.SeekCommit(v) }) })
}

// TogglePlay pauses or resumes the active backend. Without one it does nothing.
func (c *Controller) TogglePlay() {
	if c.disposed || c.active == nil {
		return
	}
	c.toggle()
}

// ToggleMute applies the mute switch. Before any playback it goes to the audio element.
func (c *Controller) ToggleMute(muted bool) {
	if c.disposed {
		return
	}

	var target Backend = c.audio
	if c.active != nil {
		target = c.active
	}

	if muted {
		target.Mute()
	} else {
		target.Unmute()
	}
}

// SeekInput follows a slider drag by updating the time label only.
func (c *Controller) SeekInput(value string) {
	if c.disposed {
		return
	}
	if secs, ok := parseSeek(value); ok {
		c.surface.SetCurrentLabel(FormatTime(secs))
	}
}

// SeekCommit issues a single seek for the released slider value.
func (c *Controller) SeekCommit(value string) {
	if c.disposed || c.active == nil {
		return
	}

	secs, ok := parseSeek(value)
	if !ok {
		log.WithFields(log.Fields{"value": value}).Debug("ignoring unparsable seek value")
		return
	}
	c.active.Seek(secs)
}

// KeyDown handles keyboard shortcuts. Keys typed into text fields or held with Alt are left alone.
func (c *Controller) KeyDown(ev KeyEvent) {
	if c.disposed || ev.Alt || c.doc.FocusInText() {
		return
	}

	switch ev.Code {
	case KeySpace:
		c.TogglePlay()
	case KeyArrowRight:
		c.seekBy(c.step)
	case KeyArrowLeft:
		c.seekBy(-c.step)
	}
}

func (c *Controller) seekBy(delta float64) {
	if c.active == nil {
		return
	}

	target := c.active.CurrentTime() + delta
	if duration := c.active.Duration(); finite(duration) {
		target = util.Clamp(target, 0, duration)
	} else {
		target = math.Max(target, 0)
	}
	c.active.Seek(target)
}
