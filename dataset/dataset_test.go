package dataset

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
)

const repertoireCSV = `ID,title,composer,lyricist
# retired pieces are commented out
R1,Furusato,岡野貞一,高野辰之
R2,Ave Maria,Arcadelt,

R3,Haru,岡野貞一,高野辰之
R4,Untitled,,
`

const concertsCSV = `ID,year,month,date,name,venue,songs,url
C1,2023,12,3,Winter,Hall A,"R1, R2",
C2,2024,5,12,Spring,Hall B,R3,https://example.com
# C0,2022,1,1,Hidden,,,
C3,2024,11,2,Autumn,Hall C,"R1,X9",
C4,2024,5,1,Early spring,Hall B,,
C5,999,1,1,Ancient,,,
`

const pickupCSV = `id,title,description,audioUrl,youtubeId,date
 a1 , Furusato , live ,/audio/furusato.mp3,, 2024-01-01
a2,,no title,/audio/x.mp3,,
a3,Video,,https://www.youtube.com/watch?v=xyz12345678,xyz12345678,2024-02-01
a4,No URL,,,,
`

func site(files map[string]string) *Site {
	fs := afero.NewMemMapFs()
	for name, data := range files {
		if err := afero.WriteFile(fs, name, []byte(data), 0o644); err != nil {
			panic(err)
		}
	}
	return New(fs)
}

func TestRepertoire(t *testing.T) {
	Convey("Given a repertoire table", t, func() {
		s := site(map[string]string{RepertoirePath: repertoireCSV})

		pieces, err := s.Repertoire()
		So(err, ShouldBeNil)

		Convey("Comments and empty lines are skipped", func() {
			ids := lo.Map(pieces, func(p Piece, _ int) string { return p.ID })
			So(ids, ShouldResemble, []string{"R1", "R2", "R3", "R4"})
		})

		Convey("Composers are grouped in collation order", func() {
			groups := GroupByComposer(pieces, language.Japanese)
			composers := lo.Map(groups, func(g ComposerGroup, _ int) string { return g.Composer })
			So(composers, ShouldResemble, []string{"", "Arcadelt", "岡野貞一"})
			So(len(groups[2].Pieces), ShouldEqual, 2)
			So(groups[2].Pieces[0].ID, ShouldEqual, "R1")
		})

		Convey("An undefined language sorts like Japanese", func() {
			ja := GroupByComposer(pieces, language.Japanese)
			und := GroupByComposer(pieces, language.Und)
			So(cmp.Diff(ja, und), ShouldBeEmpty)
		})

		Convey("The catalog skips incomplete pieces", func() {
			catalog := NewCatalog(pieces)
			So(catalog, ShouldResemble, Catalog{
				"R1": "岡野貞一 - Furusato",
				"R2": "Arcadelt - Ave Maria",
				"R3": "岡野貞一 - Haru",
			})

			So(catalog.FormatSongs("R1, X9 ,R2"), ShouldResemble, []string{"岡野貞一 - Furusato", "X9", "Arcadelt - Ave Maria"})
			So(catalog.FormatSongs(""), ShouldBeEmpty)
		})
	})

	Convey("A missing table is an error", t, func() {
		_, err := site(nil).Repertoire()
		So(err, ShouldNotBeNil)
	})
}

func TestConcerts(t *testing.T) {
	Convey("Given a concert table", t, func() {
		s := site(map[string]string{ConcertsPath: concertsCSV})

		concerts, err := s.Concerts()
		So(err, ShouldBeNil)
		So(len(concerts), ShouldEqual, 5)
		So(concerts[0].Songs, ShouldEqual, "R1, R2")

		Convey("Years are ordered numerically, newest first", func() {
			groups := GroupByYear(concerts)
			years := lo.Map(groups, func(g YearGroup, _ int) string { return g.Year })
			So(years, ShouldResemble, []string{"2024", "2023", "999"})

			ids := lo.Map(groups[0].Concerts, func(c Concert, _ int) string { return c.ID })
			So(ids, ShouldResemble, []string{"C3", "C2", "C4"})
		})
	})
}

func TestAudio(t *testing.T) {
	Convey("Given curated audio tables", t, func() {
		s := site(map[string]string{PickupPath: pickupCSV})

		Convey("Rows are trimmed and incomplete ones dropped", func() {
			want := []AudioRow{
				{ID: "a1", Title: "Furusato", Description: "live", AudioURL: "/audio/furusato.mp3", Date: "2024-01-01"},
				{ID: "a3", Title: "Video", AudioURL: "https://www.youtube.com/watch?v=xyz12345678", YoutubeID: "xyz12345678", Date: "2024-02-01"},
			}
			So(cmp.Diff(want, s.Audio("pickup")), ShouldBeEmpty)
		})

		Convey("Unknown datasets are empty", func() {
			So(s.Audio("archive"), ShouldBeEmpty)
		})

		Convey("Unreadable datasets are empty", func() {
			So(site(nil).Audio("pickup"), ShouldBeEmpty)
		})
	})
}

func TestLeadingInt(t *testing.T) {
	Convey("leadingInt", t, func() {
		So(leadingInt("2024"), ShouldEqual, 2024)
		So(leadingInt(" 12月"), ShouldEqual, 12)
		So(leadingInt("-3"), ShouldEqual, -3)
		So(leadingInt("abc"), ShouldEqual, 0)
		So(leadingInt(""), ShouldEqual, 0)
	})
}
