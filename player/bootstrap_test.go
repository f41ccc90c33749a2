package player

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBootstrap(t *testing.T) {
	Convey("Given a loader that has not finished loading", t, func() {
		h := newHarness(withoutLoader)

		So(h.c.BootState(), ShouldEqual, BootWaitingForScript)
		So(h.factory.created, ShouldBeEmpty)

		Convey("It polls until the loader is available", func() {
			h.m.Advance(time.Second)
			So(h.factory.created, ShouldBeEmpty)

			h.loader.available = true
			h.m.Advance(DefaultPollInterval)
			So(h.factory.created, ShouldHaveLength, 1)
			So(h.c.BootState(), ShouldEqual, BootConstructing)

			h.ready()
			So(h.c.BootState(), ShouldEqual, BootReady)
			So(h.m.Pending(), ShouldEqual, 0)
		})

		Convey("Rebinding does not start a second poll", func() {
			h.c.Bind()
			h.c.Bind()
			So(h.m.Pending(), ShouldEqual, 1)
		})

		Convey("Removing the container ends the wait", func() {
			delete(h.doc.containers, DefaultContainerID)
			h.c.Bind()
			So(h.c.BootState(), ShouldEqual, BootUninitialized)
			So(h.m.Pending(), ShouldEqual, 0)
		})
	})

	Convey("Given a ready embedded player", t, func() {
		h := newHarness().ready()
		first := h.video()

		Convey("Rebinding with the same container is a no-op", func() {
			h.c.Bind()
			So(h.factory.created, ShouldHaveLength, 1)
			So(first.destroyed, ShouldBeFalse)
			So(h.c.BootState(), ShouldEqual, BootReady)
		})

		Convey("A replaced container rebuilds the player", func() {
			first.destroyErr = errors.New("element already removed")
			h.doc.containers[DefaultContainerID] = &fakeElement{attached: true}

			So(func() { h.c.Bind() }, ShouldNotPanic)
			So(first.destroyed, ShouldBeTrue)
			So(h.factory.created, ShouldHaveLength, 2)
			So(h.c.BootState(), ShouldEqual, BootConstructing)

			h.ready()
			So(h.c.BootState(), ShouldEqual, BootReady)
		})

		Convey("A detached player element is treated as stale", func() {
			first.el.attached = false
			h.c.Bind()
			So(first.destroyed, ShouldBeTrue)
			So(h.factory.created, ShouldHaveLength, 2)
		})

		Convey("A missing container destroys the player without retrying", func() {
			delete(h.doc.containers, DefaultContainerID)
			h.c.Bind()

			So(first.destroyed, ShouldBeTrue)
			So(h.c.BootState(), ShouldEqual, BootUninitialized)
			So(h.m.Pending(), ShouldEqual, 0)

			Convey("And a video click is dropped without loading anything", func() {
				h.click(h.b)
				h.m.Advance(time.Second)
				So(first.loads, ShouldEqual, 0)
				So(h.factory.created, ShouldHaveLength, 1)
				So(h.m.Pending(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a container that is not attached yet", t, func() {
		h := newHarness(withDetachedContainer)
		So(h.c.BootState(), ShouldEqual, BootWaitingForContainer)

		Convey("Construction waits for the container to attach", func() {
			h.m.Advance(time.Second)
			So(h.factory.created, ShouldBeEmpty)

			h.doc.containers[DefaultContainerID].attached = true
			h.m.Advance(DefaultPollInterval)
			So(h.factory.created, ShouldHaveLength, 1)
		})
	})

	Convey("A failing factory leaves the bootstrap uninitialized", t, func() {
		h := newHarness(withFailingFactory)
		So(h.c.BootState(), ShouldEqual, BootUninitialized)
		So(h.factory.created, ShouldBeEmpty)
	})
}
