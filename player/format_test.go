package player

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormatTime(t *testing.T) {
	Convey("FormatTime renders m:ss", t, func() {
		So(FormatTime(0), ShouldEqual, "0:00")
		So(FormatTime(65), ShouldEqual, "1:05")
		So(FormatTime(65.99), ShouldEqual, "1:05")
		So(FormatTime(3661), ShouldEqual, "61:01")

		Convey("Unknown or negative lengths render as zero", func() {
			So(FormatTime(math.NaN()), ShouldEqual, "0:00")
			So(FormatTime(-3), ShouldEqual, "0:00")
		})

		Convey("A live stream with no end renders as a placeholder", func() {
			So(FormatTime(math.Inf(1)), ShouldEqual, "--:--")
		})
	})
}

func TestParseSeek(t *testing.T) {
	Convey("parseSeek floors numeric slider values", t, func() {
		v, ok := parseSeek(" 12.8 ")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, 12)

		_, ok = parseSeek("twelve")
		So(ok, ShouldBeFalse)

		_, ok = parseSeek("NaN")
		So(ok, ShouldBeFalse)
	})
}
