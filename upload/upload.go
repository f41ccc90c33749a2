// Package upload publishes a recording: it encodes the audio with a still image, uploads the
// video to the hosting service and writes the audio entry that lets the site play it.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/media"
	"github.com/yamanami-choir/yamanami/probe"
	"github.com/yamanami-choir/yamanami/util"
	"github.com/yamanami-choir/yamanami/where"
)

var (
	ErrAudioNotFound = errors.New("audio file not found")
	ErrImageNotFound = errors.New("cover image not found")
	ErrNoVideoID     = errors.New("could not extract video id from upload output")
	ErrDirectory     = errors.New("invalid directory name")
)

var (
	videoIDPattern  = regexp.MustCompile(`Video ID:\s*(?P<id>[a-zA-Z0-9_-]{11})`)
	unsafeFilename  = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	defaultBitrate  = "192k"
	evenScaleFilter = "scale=ceil(iw/2)*2:ceil(ih/2)*2,format=yuv420p"
)

// Step names a stage of the pipeline.
type Step int

const (
	StepEncode Step = iota
	StepUpload
	StepCleanup
	StepProbe
	StepWrite
)

func (s Step) String() string {
	switch s {
	case StepEncode:
		return "encode"
	case StepUpload:
		return "upload"
	case StepCleanup:
		return "cleanup"
	case StepProbe:
		return "probe"
	case StepWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Runner executes an external program and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s: %w (%s)", filepath.Base(name), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Prober looks up hosted video metadata. *probe.Prober implements it.
type Prober interface {
	Video(ctx context.Context, id string) (probe.Info, error)
}

// Options configure the pipeline. Relative paths are resolved against SiteRoot.
type Options struct {
	SiteRoot           string
	FFmpeg             string
	Uploader           string
	Image              string
	Privacy            string
	DefaultDescription string

	// Prober, when set, fills in the duration of the uploaded video.
	Prober Prober
	// OnStep is called as each stage starts.
	OnStep func(Step)

	Run Runner
	Now func() time.Time
}

// Request describes one recording to publish.
type Request struct {
	AudioPath   string
	Directory   string
	Title       string
	Description string
}

// FrontMatter is the audio entry written for an uploaded recording.
type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	YoutubeID   string `yaml:"youtubeId"`
	AudioURL    string `yaml:"audioUrl"`
	Date        string `yaml:"date"`
	Duration    string `yaml:"duration,omitempty"`
	Cover       string `yaml:"cover"`
}

// Result reports what was published.
type Result struct {
	VideoID  string
	URL      string
	Markdown string
	Entry    FrontMatter
}

// Upload runs the whole pipeline. The temporary video is removed whether or not the upload succeeds.
func Upload(ctx context.Context, opts Options, req Request) (*Result, error) {
	opts = opts.withDefaults()

	audio, err := filepath.Abs(req.AudioPath)
	if err != nil {
		audio = req.AudioPath
	}
	if info, err := filesystem.API().Stat(audio); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, audio)
	}

	if err := validateDirectory(req.Directory); err != nil {
		return nil, err
	}

	image := opts.resolve(opts.Image)
	if exists, _ := filesystem.API().Exists(image); !exists {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, image)
	}

	stem := util.FileStem(audio)
	title := req.Title
	if title == "" {
		title = strings.ReplaceAll(stem, "_", " ")
	}
	description := req.Description
	if description == "" {
		description = opts.DefaultDescription
	}

	logger := log.WithFields(log.Fields{"audio": audio, "directory": req.Directory})

	video := filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.mp4", stem, uuid.NewString()[:8]))
	defer removeTemp(video)

	opts.step(StepEncode)
	logger.WithField("video", video).Info("encoding video")
	if _, err := opts.Run(ctx, opts.FFmpeg, encodeArgs(image, audio, video)...); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	opts.step(StepUpload)
	logger.WithField("title", title).Info("uploading video")
	output, err := opts.Run(ctx, opts.resolve(opts.Uploader), uploadArgs(video, title, description, opts.Privacy)...)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	id, ok := util.ReGroups(videoIDPattern, output)["id"]
	if !ok {
		logger.Errorf("upload output: %s", output)
		return nil, ErrNoVideoID
	}

	opts.step(StepCleanup)
	removeTemp(video)

	now := opts.Now()
	entry := FrontMatter{
		Title:       title,
		Description: description,
		YoutubeID:   id,
		AudioURL:    media.WatchURL(id),
		Date:        now.Format("Jan 2, 2006"),
		Cover:       constant.DefaultCover,
	}

	if opts.Prober != nil {
		opts.step(StepProbe)
		if info, err := opts.Prober.Video(ctx, id); err != nil {
			logger.Warnf("could not probe duration: %v", err)
		} else if secs := info.Seconds(); secs > 0 {
			entry.Duration = FormatDuration(secs)
		}
	}

	opts.step(StepWrite)
	dir := filepath.Join(opts.SiteRoot, filepath.FromSlash(constant.ContentDir), content.AudioEntries.Name, req.Directory)
	name := fmt.Sprintf("%s_%s.md", now.Format("20060102"), unsafeFilename.ReplaceAllString(stem, "_"))
	path := filepath.Join(dir, name)
	if err := writeEntry(path, entry); err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{"id": id, "markdown": path}).Info("published audio entry")
	return &Result{VideoID: id, URL: entry.AudioURL, Markdown: path, Entry: entry}, nil
}

func (o Options) withDefaults() Options {
	if o.Run == nil {
		o.Run = runCmd
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FFmpeg == "" {
		o.FFmpeg = "ffmpeg"
	}
	if o.Uploader == "" {
		o.Uploader = "youtubeuploader"
	}
	if o.Privacy == "" {
		o.Privacy = "unlisted"
	}
	return o
}

// resolve anchors relative paths that name a file at the site root. Bare program names stay as they are.
func (o Options) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || !strings.ContainsAny(path, `/\`) {
		return path
	}
	return filepath.Join(o.SiteRoot, filepath.FromSlash(path))
}

func (o Options) step(s Step) {
	if o.OnStep != nil {
		o.OnStep(s)
	}
}

func validateDirectory(dir string) error {
	if dir == "" || dir == "." || dir == ".." || strings.ContainsAny(dir, `/\`) {
		return fmt.Errorf("%w: %q", ErrDirectory, dir)
	}
	return nil
}

func encodeArgs(image, audio, video string) []string {
	return []string{
		"-y",
		"-loop", "1",
		"-i", image,
		"-i", audio,
		"-vf", evenScaleFilter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:a", defaultBitrate,
		"-shortest",
		video,
	}
}

func uploadArgs(video, title, description, privacy string) []string {
	return []string{
		"-filename=" + video,
		"-title=" + title,
		"-description=" + description,
		"-privacy=" + privacy,
	}
}

func removeTemp(path string) {
	err := filesystem.API().Remove(path)
	if err != nil && !os.IsNotExist(err) {
		log.Warnf("could not delete temporary file %s: %v", path, err)
	}
}

func writeEntry(path string, entry FrontMatter) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	data, err := content.Render(entry, "")
	if err != nil {
		return err
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending entry file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			log.Debugf("cleanup pending entry file: %v", err)
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// FormatDuration renders seconds as "m:ss", or "h:mm:ss" from an hour up.
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
