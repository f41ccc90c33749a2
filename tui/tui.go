// Package tui hosts the player controller on a terminal page: the site's cards become a
// list, the transport bar renders the shared surface and key presses become page events.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/loop"
	"github.com/yamanami-choir/yamanami/mpv"
	"github.com/yamanami-choir/yamanami/player"
	"golang.org/x/sync/errgroup"
)

const disposeTimeout = 3 * time.Second

// Options encapsulates the runtime configuration for the terminal page.
type Options struct {
	SiteRoot     string
	Title        string
	Origin       string
	ContainerID  string
	PollInterval time.Duration
	SeekStep     float64
	MPV          string
	// Watch reloads the cards when files under the content directory change.
	Watch bool
}

// Run shows the page until the user quits or ctx is cancelled.
func Run(ctx context.Context, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	site := filesystem.Rooted(options.SiteRoot)
	specs, err := loadCards(site, constant.ContentDir)
	if err != nil {
		return fmt.Errorf("load cards: %w", err)
	}

	containerID := options.ContainerID
	if containerID == "" {
		containerID = player.DefaultContainerID
	}

	kick := make(chan struct{}, 1)
	pg := newPage(func() {
		select {
		case kick <- struct{}{}:
		default:
		}
	})
	pg.setCards(specs)
	pg.mount(containerID)

	audio, err := mpv.NewAudio(options.MPV)
	if err != nil {
		return err
	}
	defer audio.Close()

	loader := mpv.Load(ctx, options.MPV)
	sched := loop.New()

	ctrl, err := player.New(player.Options{
		Scheduler:    sched,
		Document:     pg,
		Surface:      pg.surface,
		Audio:        audio,
		Embedded:     &mpv.VideoFactory{Bin: options.MPV, Loader: loader},
		Loader:       loader,
		Origin:       options.Origin,
		ContainerID:  containerID,
		PollInterval: options.PollInterval,
		SeekStep:     options.SeekStep,
	})
	if err != nil {
		return err
	}

	rebind := func() {
		sched.Post(func() {
			if n := ctrl.Bind(); n > 0 {
				log.Infof("bound %d new cards", n)
			}
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	bubble := newBubble(pg, options.Title, containerID, options.SeekStep, rebind)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		return sched.Run(gctx)
	})
	sched.Post(ctrl.Init)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-kick:
				program.Send(refreshMsg{})
			}
		}
	})

	if options.Watch {
		dir := filepath.Join(options.SiteRoot, filepath.FromSlash(constant.ContentDir))
		g.Go(func() error {
			return content.Watch(gctx, dir, content.DefaultDebounce, func() {
				specs, err := loadCards(site, constant.ContentDir)
				if err != nil {
					log.Warnf("reload cards: %v", err)
					program.Send(err)
					return
				}
				pg.setCards(specs)
				rebind()
			})
		})
	}

	g.Go(func() error {
		defer cancel()

		_, err := program.Run()

		disposeCtx, stop := context.WithTimeout(context.Background(), disposeTimeout)
		defer stop()
		if callErr := sched.Call(disposeCtx, ctrl.Dispose); callErr != nil {
			log.Warnf("dispose player: %v", callErr)
		}

		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
