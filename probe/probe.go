// Package probe looks up hosted video metadata with yt-dlp and caches it on disk.
package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"

	ytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/media"
)

// ErrInvalidID is returned for strings that cannot be a hosted video id.
var ErrInvalidID = errors.New("invalid video id")

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Info is the subset of yt-dlp's metadata the site uses.
type Info struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader,omitempty"`
	Duration   float64 `json:"duration"`
	WebpageURL string  `json:"webpage_url"`
}

// Seconds returns the duration rounded to whole seconds.
func (i Info) Seconds() int {
	return int(math.Round(i.Duration))
}

// fetch runs yt-dlp for one URL. Replaced in tests.
var fetch = func(ctx context.Context, url string) (Info, error) {
	res, err := ytdlp.New().
		SkipDownload().
		NoPlaylist().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return Info{}, fmt.Errorf("yt-dlp run: %w", err)
	}

	infos, err := res.GetExtractedInfo()
	if err != nil {
		return Info{}, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	if len(infos) == 0 || infos[0] == nil {
		return Info{}, errors.New("parse yt-dlp json: no info returned")
	}

	ext := infos[0]
	return Info{
		ID:         ext.ID,
		Title:      deref(ext.Title),
		Uploader:   deref(ext.Uploader),
		Duration:   deref(ext.Duration),
		WebpageURL: deref(ext.WebpageURL),
	}, nil
}

func deref[T any](ptr *T) T {
	var zero T
	if ptr == nil {
		return zero
	}
	return *ptr
}

// Prober fetches metadata, serving repeated lookups from its cache.
type Prober struct {
	cache *cacher
}

// New returns a Prober backed by the shared on-disk cache.
func New() *Prober {
	return &Prober{cache: sharedCacher()}
}

// Video returns the metadata of the hosted video id.
func (p *Prober) Video(ctx context.Context, id string) (Info, error) {
	if !idPattern.MatchString(id) {
		return Info{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	if cached, ok := p.cache.Get(id).Get(); ok {
		log.WithFields(log.Fields{"id": id}).Debug("probe cache hit")
		return cached, nil
	}

	info, err := fetch(ctx, media.WatchURL(id))
	if err != nil {
		return Info{}, err
	}
	if info.ID == "" {
		info.ID = id
	}

	if err := p.cache.Set(id, info); err != nil {
		log.WithFields(log.Fields{"id": id}).Warnf("failed to cache probe result: %v", err)
	}
	return info, nil
}

// Forget drops a cached lookup.
func (p *Prober) Forget(id string) error {
	return p.cache.Delete(id)
}
