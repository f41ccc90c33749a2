package player

import (
	"time"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/loop"
	"github.com/yamanami-choir/yamanami/poll"
)

// BootState is the lifecycle stage of the embedded player.
type BootState int

const (
	BootUninitialized BootState = iota
	BootWaitingForScript
	BootWaitingForContainer
	BootConstructing
	BootReady
)

func (s BootState) String() string {
	switch s {
	case BootWaitingForScript:
		return "waiting-for-script"
	case BootWaitingForContainer:
		return "waiting-for-container"
	case BootConstructing:
		return "constructing"
	case BootReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// bootstrapper creates the embedded player once both its loader and its container are
// available, and rebuilds it when the container is replaced.
type bootstrapper struct {
	sched       loop.Scheduler
	doc         Document
	loader      ScriptLoader
	factory     EmbeddedFactory
	containerID string
	interval    time.Duration

	onReady       func()
	onStateChange func(EmbeddedState)
	// onDestroyed runs after a handle is dropped, whether it was ready or not.
	onDestroyed func()

	state     BootState
	handle    EmbeddedPlayer
	container Element
	ready     bool
	// gen invalidates callbacks of destroyed handles.
	gen  int
	wait *poll.Poll
}

// Player returns the handle once it has reported ready, nil otherwise.
func (b *bootstrapper) Player() EmbeddedPlayer {
	if !b.ready {
		return nil
	}
	return b.handle
}

func (b *bootstrapper) State() BootState { return b.state }

// Ensure drives the state machine as far as it can go right now. Calling it again while a
// current handle exists is a no-op.
func (b *bootstrapper) Ensure() {
	container, ok := b.doc.Container(b.containerID)
	if !ok || container == nil {
		b.reset()
		return
	}

	if b.handle != nil {
		if b.current(container) {
			return
		}
		log.WithFields(log.Fields{"container": b.containerID}).Info("embedded player is stale, rebuilding")
		b.destroy()
	}

	if b.loader == nil || !b.loader.Available() {
		b.await(BootWaitingForScript, b.scriptAvailable)
		return
	}

	if !container.Attached() {
		b.await(BootWaitingForContainer, b.containerSettled)
		return
	}

	b.construct(container)
}

func (b *bootstrapper) scriptAvailable() bool {
	return b.loader != nil && b.loader.Available()
}

// containerSettled holds once the container is attached or gone, so a removed container
// ends the wait instead of polling forever.
func (b *bootstrapper) containerSettled() bool {
	c, ok := b.doc.Container(b.containerID)
	return !ok || c == nil || c.Attached()
}

func (b *bootstrapper) await(state BootState, ready func() bool) {
	if b.state == state && b.wait.Active() {
		return
	}
	b.wait.Stop()
	b.setState(state)
	b.wait = poll.Until(b.sched, b.interval, ready, b.Ensure)
}

func (b *bootstrapper) current(container Element) bool {
	if b.container != container || !container.Attached() {
		return false
	}
	// A handle still constructing has not rendered yet.
	if !b.ready {
		return true
	}
	el := b.handle.Element()
	return el != nil && el.Attached()
}

func (b *bootstrapper) construct(container Element) {
	b.wait.Stop()
	b.setState(BootConstructing)

	b.gen++
	gen := b.gen

	handle, err := b.factory.New(container, EmbeddedEvents{
		OnReady: func() {
			b.sched.Post(func() {
				if gen != b.gen {
					return
				}
				b.ready = true
				b.setState(BootReady)
				if b.onReady != nil {
					b.onReady()
				}
			})
		},
		OnStateChange: func(s EmbeddedState) {
			b.sched.Post(func() {
				if gen != b.gen || b.onStateChange == nil {
					return
				}
				b.onStateChange(s)
			})
		},
	})
	if err != nil {
		log.WithFields(log.Fields{"container": b.containerID, "error": err}).Error("constructing embedded player")
		b.gen++
		b.setState(BootUninitialized)
		return
	}

	b.handle = handle
	b.container = container
}

// destroy drops the handle. Destruction failures are swallowed because the page may
// already have removed the player's element.
func (b *bootstrapper) destroy() {
	if b.handle == nil {
		return
	}

	handle := b.handle
	b.handle = nil
	b.container = nil
	b.ready = false
	b.gen++

	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Debugf("destroying embedded player: %v", r)
			}
		}()
		if err := handle.Destroy(); err != nil {
			log.Debugf("destroying embedded player: %v", err)
		}
	}()

	if b.onDestroyed != nil {
		b.onDestroyed()
	}
}

func (b *bootstrapper) reset() {
	b.wait.Stop()
	b.destroy()
	b.setState(BootUninitialized)
}

func (b *bootstrapper) setState(s BootState) {
	if b.state == s {
		return
	}
	log.WithFields(log.Fields{"from": b.state, "to": s}).Debug("embedded player bootstrap")
	b.state = s
}
