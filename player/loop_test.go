package player

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"

	"github.com/yamanami-choir/yamanami/loop"
)

func TestControllerOnLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("A controller on a real loop leaves no goroutines behind", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		l := loop.New()
		go func() { _ = l.Run(ctx) }()

		h := newHarness()
		c, err := New(Options{
			Scheduler: l,
			Document:  h.doc,
			Surface:   &fakeSurface{},
			Audio:     newFakeAudio(h.j),
			Embedded:  h.factory,
			Loader:    h.loader,
			Origin:    testOrigin,
		})
		So(err, ShouldBeNil)

		So(l.Call(ctx, c.Init), ShouldBeNil)
		So(l.Call(ctx, func() { h.factory.last().events.OnReady() }), ShouldBeNil)
		So(l.Call(ctx, func() { c.Click(h.b) }), ShouldBeNil)
		So(l.Call(ctx, func() {}), ShouldBeNil)
		So(l.Call(ctx, func() {}), ShouldBeNil)

		var mode Mode
		So(l.Call(ctx, func() { mode = c.Mode() }), ShouldBeNil)
		So(mode, ShouldEqual, ModeEmbeddedVideo)

		So(l.Call(ctx, c.Dispose), ShouldBeNil)
		cancel()
		<-l.Done()
	})
}
