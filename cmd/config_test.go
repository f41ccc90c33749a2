package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/key"
)

func TestLookupField(t *testing.T) {
	Convey("Given a mistyped key", t, func() {
		Convey("The closest registered key is suggested", func() {
			So(closestKey("player.seek_stp"), ShouldEqual, key.PlayerSeekStep)
			So(closestKey("upload.privcy"), ShouldEqual, key.UploadPrivacy)

			_, err := lookupField("site.titel")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, key.SiteTitle)
		})

		Convey("A registered key is found", func() {
			field, err := lookupField(key.SiteOrigin)
			So(err, ShouldBeNil)
			So(field.Key, ShouldEqual, key.SiteOrigin)
		})
	})
}

func TestParseValue(t *testing.T) {
	Convey("Given registered fields", t, func() {
		Convey("Values follow the type of the default", func() {
			v, err := parseValue(config.Default[key.PlayerPollInterval], []string{"250"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 250)

			v, err = parseValue(config.Default[key.UploadProbe], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = parseValue(config.Default[key.SiteTitle], []string{"やまなみ"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "やまなみ")
		})

		Convey("Malformed values are rejected", func() {
			_, err := parseValue(config.Default[key.PlayerPollInterval], []string{"fast"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.PlayerWatchContent], []string{"maybe"})
			So(err, ShouldNotBeNil)
		})

		Convey("A value is required", func() {
			_, err := parseValue(config.Default[key.SiteTitle], nil)
			So(err, ShouldNotBeNil)
		})
	})
}
