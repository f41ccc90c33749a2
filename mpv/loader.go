package mpv

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/yamanami-choir/yamanami/log"
)

var (
	lookPath = exec.LookPath

	installYtdlp = func(ctx context.Context) (string, error) {
		resolved, err := ytdlp.Install(ctx, nil)
		if err != nil {
			return "", err
		}
		return resolved.Executable, nil
	}
)

// Loader readies the tools the video engine needs: mpv itself and a yt-dlp it can resolve
// watch URLs with. It implements player.ScriptLoader.
type Loader struct {
	available atomic.Bool
	done      chan struct{}

	mu   sync.Mutex
	path string
	err  error
}

// Load starts readying the tools in the background.
func Load(ctx context.Context, mpvBin string) *Loader {
	l := &Loader{done: make(chan struct{})}
	go l.run(ctx, mpvBin)
	return l
}

func (l *Loader) run(ctx context.Context, mpvBin string) {
	defer close(l.done)

	if mpvBin == "" {
		mpvBin = "mpv"
	}
	if _, err := lookPath(mpvBin); err != nil {
		l.fail(fmt.Errorf("mpv not found: %w", err))
		return
	}

	path, err := installYtdlp(ctx)
	if err != nil {
		l.fail(fmt.Errorf("install yt-dlp: %w", err))
		return
	}

	l.mu.Lock()
	l.path = path
	l.mu.Unlock()
	l.available.Store(true)

	log.WithFields(log.Fields{"yt-dlp": path}).Info("video engine tools ready")
}

func (l *Loader) fail(err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
	log.Warnf("video engine unavailable: %v", err)
}

// Available reports whether the video engine can be started.
func (l *Loader) Available() bool { return l.available.Load() }

// Path returns the yt-dlp executable once available.
func (l *Loader) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Done is closed once readying finished, successfully or not.
func (l *Loader) Done() <-chan struct{} { return l.done }

// Err returns why the tools are unavailable. It is nil until Done is closed.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
