package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a watched directory", t, func() {
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "audio"), 0o755), ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		changed := make(chan struct{}, 8)
		done := make(chan error, 1)
		go func() {
			done <- Watch(ctx, dir, 20*time.Millisecond, func() { changed <- struct{}{} })
		}()

		// give the watcher time to register
		time.Sleep(50 * time.Millisecond)

		Convey("A burst of writes is reported once", func() {
			for i := 0; i < 3; i++ {
				So(os.WriteFile(filepath.Join(dir, "audio", "a.md"), []byte{byte(i)}, 0o644), ShouldBeNil)
			}

			select {
			case <-changed:
			case <-time.After(2 * time.Second):
				So("no change reported", ShouldBeEmpty)
			}

			time.Sleep(100 * time.Millisecond)
			So(len(changed), ShouldEqual, 0)
		})

		Reset(func() {
			cancel()
			So(<-done, ShouldBeNil)
		})
	})
}
