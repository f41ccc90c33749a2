package mpv

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/media"
	"github.com/yamanami-choir/yamanami/player"
)

var videoProperties = []string{"time-pos", "pause", "duration", "mute"}

var errDestroyed = errors.New("video player destroyed")

// VideoFactory builds Video players. It implements player.EmbeddedFactory.
type VideoFactory struct {
	// Bin is the mpv executable.
	Bin string
	// Loader supplies the yt-dlp executable mpv resolves watch URLs with.
	Loader *Loader
}

// New starts a Video in the background and returns immediately. events.OnReady fires once
// the engine accepts commands.
func (f *VideoFactory) New(container player.Element, events player.EmbeddedEvents) (player.EmbeddedPlayer, error) {
	if container == nil {
		return nil, errors.New("video player needs a container")
	}

	args := []string{"--no-video", "--ytdl=yes", "--ytdl-format=bestaudio/best"}
	if f.Loader != nil {
		if path := f.Loader.Path(); path != "" {
			args = append(args, "--script-opts=ytdl_hook-ytdl_path="+path)
		}
	}

	v := newVideo(container, events)
	go v.start(f.Bin, args)
	return v, nil
}

// Video plays hosted videos by their watch URL, audio only. It implements player.EmbeddedPlayer.
type Video struct {
	host    player.Element
	events  player.EmbeddedEvents
	element *attachment

	mu        sync.Mutex
	ipc       commander
	proc      *process
	listener  *listener
	url       string
	state     player.EmbeddedState
	now       float64
	duration  float64
	paused    bool
	loaded    bool
	destroyed bool
}

func newVideo(host player.Element, events player.EmbeddedEvents) *Video {
	v := &Video{host: host, events: events, state: player.StateUnstarted}
	v.element = &attachment{v: v}
	return v
}

func (v *Video) start(bin string, args []string) {
	proc, err := spawn(bin, args...)
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Error("starting video engine")
		return
	}

	l, err := listen(proc.socket, videoProperties, v.handle)
	if err != nil {
		log.WithFields(log.Fields{"error": err}).Error("observing video engine")
		_ = proc.Close()
		return
	}

	if !v.attach(proc.client, proc, l) {
		l.Close()
		_ = proc.Close()
		return
	}

	if v.events.OnReady != nil {
		v.events.OnReady()
	}
}

// attach installs a started engine. It refuses when the player was destroyed meanwhile.
func (v *Video) attach(ipc commander, proc *process, l *listener) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.destroyed {
		return false
	}
	v.ipc, v.proc, v.listener = ipc, proc, l
	return true
}

func (v *Video) conn() (commander, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.destroyed:
		return nil, errDestroyed
	case v.ipc == nil:
		return nil, player.ErrNotReady
	}
	return v.ipc, nil
}

func (v *Video) setPause(paused bool) error {
	c, err := v.conn()
	if err != nil {
		return err
	}
	return c.set("pause", paused)
}

func (v *Video) Play() error  { return v.setPause(false) }
func (v *Video) Pause() error { return v.setPause(true) }

// Stop unloads the video. VideoURL is empty afterwards.
func (v *Video) Stop() error {
	c, err := v.conn()
	if err != nil {
		return err
	}
	if _, err := c.command("stop"); err != nil {
		return err
	}

	v.mu.Lock()
	v.url = ""
	v.state = player.StateUnstarted
	v.mu.Unlock()
	return nil
}

func (v *Video) setMute(muted bool) error {
	c, err := v.conn()
	if err != nil {
		return err
	}
	return c.set("mute", muted)
}

func (v *Video) Mute() error   { return v.setMute(true) }
func (v *Video) UnMute() error { return v.setMute(false) }

// SeekTo seeks to an absolute position. Without allowSeekAhead the seek snaps to keyframes.
func (v *Video) SeekTo(seconds float64, allowSeekAhead bool) error {
	c, err := v.conn()
	if err != nil {
		return err
	}

	mode := "absolute"
	if !allowSeekAhead {
		mode = "absolute+keyframes"
	}
	if _, err := c.command("seek", seconds, mode); err != nil {
		return err
	}

	v.mu.Lock()
	v.now = seconds
	v.mu.Unlock()
	return nil
}

func (v *Video) CurrentTime() (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return 0, errDestroyed
	}
	return v.now, nil
}

func (v *Video) Duration() (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return 0, errDestroyed
	}
	return v.duration, nil
}

func (v *Video) State() (player.EmbeddedState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return player.StateUnstarted, errDestroyed
	}
	return v.state, nil
}

func (v *Video) VideoURL() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return "", errDestroyed
	}
	return v.url, nil
}

// LoadVideoByID replaces the current video with the one identified by id.
func (v *Video) LoadVideoByID(id string) error {
	c, err := v.conn()
	if err != nil {
		return err
	}

	target, err := sanitizeMediaTarget(media.WatchURL(id))
	if err != nil {
		return err
	}
	if _, err := c.command("loadfile", target, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", id, err)
	}

	v.mu.Lock()
	v.url = target
	v.now = 0
	v.duration = 0
	v.state = player.StateUnstarted
	v.mu.Unlock()
	return nil
}

// Destroy shuts the engine down. Calling it more than once is harmless.
func (v *Video) Destroy() error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.destroyed = true
	proc, l := v.proc, v.listener
	v.ipc, v.proc, v.listener = nil, nil, nil
	v.mu.Unlock()

	if l != nil {
		l.Close()
	}
	if proc != nil {
		return proc.Close()
	}
	return nil
}

func (v *Video) Element() player.Element { return v.element }

func (v *Video) handle(ev Event) {
	var (
		notify bool
		state  player.EmbeddedState
	)

	v.mu.Lock()
	switch ev.Kind {
	case "property-change":
		switch ev.Name {
		case "time-pos":
			if t, ok := asFloat(ev.Data); ok {
				v.now = t
			}
		case "duration":
			if d, ok := asFloat(ev.Data); ok {
				v.duration = d
			}
		case "pause":
			if p, ok := asBool(ev.Data); ok {
				v.paused = p
				if v.loaded {
					notify, state = true, playState(p)
				}
			}
		}
	case "file-loaded":
		v.loaded = true
		if !v.paused {
			notify, state = true, player.StatePlaying
		}
	case "end-file":
		v.loaded = false
		switch ev.Reason {
		case "eof", "error":
			notify, state = true, player.StateEnded
		}
	}
	if notify {
		v.state = state
	}
	v.mu.Unlock()

	if notify && v.events.OnStateChange != nil {
		v.events.OnStateChange(state)
	}
}

func playState(paused bool) player.EmbeddedState {
	if paused {
		return player.StatePaused
	}
	return player.StatePlaying
}

func (v *Video) running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return false
	}
	return v.proc == nil || v.proc.Running()
}

// attachment is the node a Video renders into its host. It detaches when the host does,
// when the player is destroyed or when the engine dies.
type attachment struct{ v *Video }

func (a *attachment) Attached() bool {
	return a.v.host.Attached() && a.v.running()
}
