package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a running loop", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		l := New()
		go func() { _ = l.Run(ctx) }()

		Convey("Posted callbacks run in order", func() {
			var got []int
			for i := 0; i < 5; i++ {
				i := i
				l.Post(func() { got = append(got, i) })
			}
			So(l.Call(ctx, func() {}), ShouldBeNil)
			So(got, ShouldResemble, []int{0, 1, 2, 3, 4})
		})

		Convey("A stopped interval never fires again", func() {
			var ticks atomic.Int32
			timer := l.Every(5*time.Millisecond, func() { ticks.Add(1) })
			time.Sleep(30 * time.Millisecond)
			So(l.Call(ctx, timer.Stop), ShouldBeNil)

			seen := ticks.Load()
			So(seen, ShouldBeGreaterThan, 0)
			time.Sleep(30 * time.Millisecond)
			So(l.Call(ctx, func() {}), ShouldBeNil)
			So(ticks.Load(), ShouldEqual, seen)
		})

		Convey("After fires exactly once", func() {
			var fired atomic.Int32
			l.After(5*time.Millisecond, func() { fired.Add(1) })
			time.Sleep(30 * time.Millisecond)
			So(l.Call(ctx, func() {}), ShouldBeNil)
			So(fired.Load(), ShouldEqual, 1)
		})

		Reset(func() {
			cancel()
			<-l.Done()
		})
	})
}

func TestLoopShutdownStopsTimers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Cancelling the loop stops live timers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		l := New()
		go func() { _ = l.Run(ctx) }()

		l.Every(time.Millisecond, func() {})
		l.Every(time.Millisecond, func() {})

		cancel()
		<-l.Done()

		Convey("And posting afterwards is a no-op", func() {
			So(func() { l.Post(func() {}) }, ShouldNotPanic)
			So(l.Every(time.Millisecond, func() {}), ShouldNotBeNil)
		})
	})
}

func TestManual(t *testing.T) {
	Convey("Given a manual scheduler", t, func() {
		m := NewManual()

		Convey("Posted callbacks wait for Flush", func() {
			ran := false
			m.Post(func() { ran = true })
			So(ran, ShouldBeFalse)
			m.Flush()
			So(ran, ShouldBeTrue)
		})

		Convey("Intervals fire once per period", func() {
			ticks := 0
			m.Every(100*time.Millisecond, func() { ticks++ })
			m.Advance(350 * time.Millisecond)
			So(ticks, ShouldEqual, 3)
			So(m.Now(), ShouldEqual, 350*time.Millisecond)
		})

		Convey("A timer stopped from inside another callback does not fire", func() {
			fired := false
			var victim Timer
			m.After(50*time.Millisecond, func() { victim.Stop() })
			victim = m.After(50*time.Millisecond, func() { fired = true })
			m.Advance(time.Second)
			So(fired, ShouldBeFalse)
			So(m.Pending(), ShouldEqual, 0)
		})
	})
}
