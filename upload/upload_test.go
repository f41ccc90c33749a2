package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/probe"
)

type call struct {
	name string
	args []string
}

type fakeProber struct {
	info probe.Info
	err  error
}

func (f fakeProber) Video(context.Context, string) (probe.Info, error) {
	return f.info, f.err
}

func TestUpload(t *testing.T) {
	Convey("Given a site with a cover image and a recording", t, func() {
		root := t.TempDir()
		image := filepath.Join(root, "src", "content", "audio", "youtube_related", "image", "icon.png")
		So(os.MkdirAll(filepath.Dir(image), 0o755), ShouldBeNil)
		So(os.WriteFile(image, []byte("png"), 0o644), ShouldBeNil)

		audio := filepath.Join(root, "春の_コンサート 2024.m4a")
		So(os.WriteFile(audio, []byte("m4a"), 0o644), ShouldBeNil)

		var calls []call
		var encoded string
		uploaderOutput := "Uploading file...\nUpload successful! Video ID: xyz12345678\n"

		opts := Options{
			SiteRoot:           root,
			Image:              "src/content/audio/youtube_related/image/icon.png",
			DefaultDescription: "Uploaded from astro-chiri",
			Now:                func() time.Time { return time.Date(2024, 4, 1, 10, 0, 0, 0, time.Local) },
			Run: func(_ context.Context, name string, args ...string) (string, error) {
				calls = append(calls, call{name, args})
				if name == "ffmpeg" {
					encoded = args[len(args)-1]
					return "", os.WriteFile(encoded, []byte("mp4"), 0o644)
				}
				return uploaderOutput, nil
			},
		}
		ctx := context.Background()

		Convey("It encodes, uploads and writes the entry", func() {
			var steps []Step
			opts.OnStep = func(s Step) { steps = append(steps, s) }
			opts.Prober = fakeProber{info: probe.Info{Duration: 185.2}}

			res, err := Upload(ctx, opts, Request{AudioPath: audio, Directory: "recently"})
			So(err, ShouldBeNil)
			So(res.VideoID, ShouldEqual, "xyz12345678")
			So(res.URL, ShouldEqual, "https://www.youtube.com/watch?v=xyz12345678")
			So(steps, ShouldResemble, []Step{StepEncode, StepUpload, StepCleanup, StepProbe, StepWrite})

			So(len(calls), ShouldEqual, 2)
			So(calls[0].args[:5], ShouldResemble, []string{"-y", "-loop", "1", "-i", image})
			So(calls[1].name, ShouldEqual, "youtubeuploader")
			So(calls[1].args, ShouldContain, "-title=春の コンサート 2024")
			So(calls[1].args, ShouldContain, "-description=Uploaded from astro-chiri")
			So(calls[1].args, ShouldContain, "-privacy=unlisted")

			Convey("The temporary video is gone", func() {
				_, err := os.Stat(encoded)
				So(os.IsNotExist(err), ShouldBeTrue)
			})

			Convey("The entry is named after the date and a sanitized stem", func() {
				So(filepath.Base(res.Markdown), ShouldEqual, "20240401_________2024.md")
				So(filepath.Dir(res.Markdown), ShouldEqual, filepath.Join(root, "src", "content", "audio", "recently"))
			})

			Convey("The entry loads back as an audio card", func() {
				store := content.NewStore(afero.NewOsFs(), filepath.Join(root, "src", "content"))
				entries, err := store.Audio()
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)

				e := entries[0]
				So(e.ID, ShouldEqual, "recently/20240401_________2024")
				So(e.Title, ShouldEqual, "春の コンサート 2024")
				So(e.YoutubeID, ShouldEqual, "xyz12345678")
				So(e.Date, ShouldEqual, "Apr 1, 2024")
				So(e.Duration, ShouldEqual, "3:05")
				So(e.Cover, ShouldEqual, "cover-images/defaultCover.jpg")
			})
		})

		Convey("Explicit titles and descriptions win, and probe failures are tolerated", func() {
			opts.Prober = fakeProber{err: errors.New("offline")}
			res, err := Upload(ctx, opts, Request{AudioPath: audio, Directory: "pickup", Title: "Furusato", Description: "live"})
			So(err, ShouldBeNil)
			So(res.Entry.Title, ShouldEqual, "Furusato")
			So(res.Entry.Description, ShouldEqual, "live")
			So(res.Entry.Duration, ShouldBeEmpty)

			raw, err := os.ReadFile(res.Markdown)
			So(err, ShouldBeNil)
			So(string(raw), ShouldStartWith, "---\ntitle: Furusato\n")
			So(string(raw), ShouldNotContainSubstring, "duration")
		})

		Convey("A missing video id fails after cleaning up", func() {
			uploaderOutput = "quota exceeded"
			_, err := Upload(ctx, opts, Request{AudioPath: audio, Directory: "recently"})
			So(errors.Is(err, ErrNoVideoID), ShouldBeTrue)

			_, statErr := os.Stat(encoded)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("Inputs are validated before anything runs", func() {
			_, err := Upload(ctx, opts, Request{AudioPath: filepath.Join(root, "missing.m4a"), Directory: "recently"})
			So(errors.Is(err, ErrAudioNotFound), ShouldBeTrue)

			_, err = Upload(ctx, opts, Request{AudioPath: audio, Directory: "../escape"})
			So(errors.Is(err, ErrDirectory), ShouldBeTrue)

			opts.Image = "nope.png"
			_, err = Upload(ctx, opts, Request{AudioPath: audio, Directory: "recently"})
			So(errors.Is(err, ErrImageNotFound), ShouldBeTrue)

			So(calls, ShouldBeEmpty)
		})

		Convey("Tool failures are reported", func() {
			opts.Run = func(context.Context, string, ...string) (string, error) {
				return "", errors.New("exit status 1")
			}
			_, err := Upload(ctx, opts, Request{AudioPath: audio, Directory: "recently"})
			So(err, ShouldNotBeNil)
			So(strings.HasPrefix(err.Error(), "encode:"), ShouldBeTrue)
		})
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(185), ShouldEqual, "3:05")
		So(FormatDuration(3601), ShouldEqual, "1:00:01")
		So(content.ParseDuration(FormatDuration(4000)), ShouldEqual, 4000)
	})
}
