package player

// Element is a node of the hosting page. Implementations must be comparable,
// pointer types in practice, because identity decides whether a container was replaced.
type Element interface {
	// Attached reports whether the element is still part of the page.
	Attached() bool
}

// Card is a playable "play this track" button together with its styled container.
type Card interface {
	ID() string
	// AudioURL and YoutubeID are the raw data attributes. At most one is expected to be set.
	AudioURL() string
	YoutubeID() string

	Checked() bool
	SetChecked(checked bool)
	// SetActive sets the container's active flag that drives its styling.
	SetActive(active bool)

	// Bound and MarkBound guard against attaching the click handler twice.
	Bound() bool
	MarkBound()
	OnClick(fn func())
}

// KeyCode names a physical key the way the page reports it.
type KeyCode string

const (
	KeySpace      KeyCode = "Space"
	KeyArrowLeft  KeyCode = "ArrowLeft"
	KeyArrowRight KeyCode = "ArrowRight"
)

// KeyEvent is a key press delivered by the page.
type KeyEvent struct {
	Code KeyCode
	Alt  bool
}

// Document is the page the controller is mounted on.
type Document interface {
	// Cards returns the cards currently on the page. The result must not be cached by callers.
	Cards() []Card
	// Container looks up an element by id.
	Container(id string) (Element, bool)
	// FocusInText reports whether keyboard focus is inside a text input or textarea.
	FocusInText() bool
	OnKeyDown(fn func(KeyEvent)) (off func())
}

// Surface is the single shared set of transport widgets.
type Surface interface {
	Bound() bool
	MarkBound()

	// Reveal makes the player visible after the first interaction.
	Reveal()
	SetPlaying(playing bool)
	SetSeekMax(max int)
	SetSeekValue(value int)
	SetCurrentLabel(label string)
	SetDurationLabel(label string)
	// SetLoading(true) shows the loading indicator and hides the controls; false does the opposite.
	SetLoading(loading bool)
	// HideControls hides both the loading indicator and the controls.
	HideControls()

	OnTogglePlay(fn func())
	OnToggleMute(fn func(muted bool))
	// OnSeekInput fires continuously while the slider is dragged.
	OnSeekInput(fn func(value string))
	// OnSeekCommit fires once when the slider is released.
	OnSeekCommit(fn func(value string))
}

// AudioEvent names a native media element event.
type AudioEvent string

const (
	EventLoadedMetadata AudioEvent = "loadedmetadata"
	EventPlay           AudioEvent = "play"
	EventPause          AudioEvent = "pause"
	EventError          AudioEvent = "error"
	EventTimeUpdate     AudioEvent = "timeupdate"
)

// AudioElement is a native audio element.
type AudioElement interface {
	Src() string
	SetSrc(src string)
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	// Duration is NaN until metadata is loaded.
	Duration() float64
	Muted() bool
	SetMuted(muted bool)
	Paused() bool
	// Play requests playback and returns the rejection, if any.
	Play() error
	Pause()
	Load()
	// On registers fn for event. Callbacks may arrive on any goroutine.
	On(event AudioEvent, fn func()) (off func())
}

// EmbeddedState is the playback state reported by the embedded player.
type EmbeddedState int

const (
	StateUnstarted EmbeddedState = iota
	StatePlaying
	StatePaused
	StateEnded
	StateBuffering
)

func (s EmbeddedState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateBuffering:
		return "buffering"
	default:
		return "unstarted"
	}
}

// EmbeddedPlayer is a hosted-video player instance. Any call may fail.
type EmbeddedPlayer interface {
	Play() error
	Pause() error
	Stop() error
	Mute() error
	UnMute() error
	SeekTo(seconds float64, allowSeekAhead bool) error
	CurrentTime() (float64, error)
	Duration() (float64, error)
	State() (EmbeddedState, error)
	// VideoURL is the page URL of the loaded video.
	VideoURL() (string, error)
	LoadVideoByID(id string) error
	Destroy() error
	// Element is the node the player rendered into its container.
	Element() Element
}

// EmbeddedEvents are the asynchronous notifications of an EmbeddedPlayer.
// They may be invoked on any goroutine.
type EmbeddedEvents struct {
	OnReady       func()
	OnStateChange func(EmbeddedState)
}

// EmbeddedFactory constructs embedded players inside a container.
type EmbeddedFactory interface {
	New(container Element, events EmbeddedEvents) (EmbeddedPlayer, error)
}

// ScriptLoader exposes whether the embedded player's entry point is loaded.
type ScriptLoader interface {
	Available() bool
}
