package media

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const origin = "https://yamanami.example/"

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		Convey("A video id takes precedence", func() {
			ref, ok := Resolve("/a.mp3", "xyz12345678", origin)
			So(ok, ShouldBeTrue)
			So(ref.Kind(), ShouldEqual, KindEmbedded)
			So(ref.EmbeddedID, ShouldEqual, "xyz12345678")
			So(ref.LocalURL, ShouldBeEmpty)
		})

		Convey("A relative audio path is made absolute", func() {
			ref, ok := Resolve("/a.mp3", "", origin)
			So(ok, ShouldBeTrue)
			So(ref.Kind(), ShouldEqual, KindLocal)
			So(ref.LocalURL, ShouldEqual, "https://yamanami.example/a.mp3")
		})

		Convey("Spaces and non-ASCII characters are encoded", func() {
			ref, _ := Resolve("/audio/春の歌 1.mp3", "", origin)
			So(ref.LocalURL, ShouldEqual, "https://yamanami.example/audio/%E6%98%A5%E3%81%AE%E6%AD%8C%201.mp3")
		})

		Convey("Absolute URLs are left unencoded", func() {
			ref, _ := Resolve("https://cdn.example/x.mp3", "", origin)
			So(ref.LocalURL, ShouldEqual, "https://cdn.example/x.mp3")
		})

		Convey("Cards with neither attribute are ignored", func() {
			_, ok := Resolve("  ", "", origin)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNormalizeURL(t *testing.T) {
	Convey("NormalizeURL", t, func() {
		Convey("Equivalent spellings normalize identically", func() {
			So(NormalizeURL("a.mp3", origin), ShouldEqual, NormalizeURL("/a.mp3", origin))
			So(NormalizeURL("./x/../a.mp3", origin), ShouldEqual, "https://yamanami.example/a.mp3")
		})

		Convey("SameLocal compares normalized forms", func() {
			So(SameLocal("/a.mp3", "https://yamanami.example/a.mp3", origin), ShouldBeTrue)
			So(SameLocal("/a.mp3", "/b.mp3", origin), ShouldBeFalse)
			So(SameLocal("", "", origin), ShouldBeFalse)
		})

		Convey("Unparseable input is returned as-is", func() {
			So(NormalizeURL("%zz", origin), ShouldEqual, "%zz")
		})
	})
}

func TestEncodeURI(t *testing.T) {
	Convey("EncodeURI keeps delimiters and escapes the rest", t, func() {
		So(EncodeURI("/a b?c=d#e"), ShouldEqual, "/a%20b?c=d#e")
		So(EncodeURI("%"), ShouldEqual, "%25")
	})
}
