package probe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/yamanami-choir/yamanami/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestProber(t *testing.T) {
	Convey("Given a prober with a stubbed yt-dlp", t, func() {
		original := fetch
		var calls []string
		fetch = func(_ context.Context, url string) (Info, error) {
			calls = append(calls, url)
			if url == "https://www.youtube.com/watch?v=gone0000000" {
				return Info{}, errors.New("video unavailable")
			}
			return Info{Title: "Furusato", Duration: 184.6}, nil
		}

		p := &Prober{cache: newCacher(filepath.Join(t.TempDir(), "probes.json"))}
		ctx := context.Background()

		Convey("Results are fetched once and then cached", func() {
			info, err := p.Video(ctx, "xyz12345678")
			So(err, ShouldBeNil)
			So(info.ID, ShouldEqual, "xyz12345678")
			So(info.Seconds(), ShouldEqual, 185)

			again, err := p.Video(ctx, "xyz12345678")
			So(err, ShouldBeNil)
			So(again, ShouldResemble, info)
			So(calls, ShouldResemble, []string{"https://www.youtube.com/watch?v=xyz12345678"})

			Convey("Forget forces a refetch", func() {
				So(p.Forget("xyz12345678"), ShouldBeNil)
				_, err := p.Video(ctx, "xyz12345678")
				So(err, ShouldBeNil)
				So(len(calls), ShouldEqual, 2)
			})
		})

		Convey("Failures are not cached", func() {
			_, err := p.Video(ctx, "gone0000000")
			So(err, ShouldNotBeNil)
			_, err = p.Video(ctx, "gone0000000")
			So(err, ShouldNotBeNil)
			So(len(calls), ShouldEqual, 2)
		})

		Convey("Malformed ids never reach yt-dlp", func() {
			_, err := p.Video(ctx, "short")
			So(errors.Is(err, ErrInvalidID), ShouldBeTrue)
			So(calls, ShouldBeEmpty)
		})

		Reset(func() {
			fetch = original
		})
	})
}
