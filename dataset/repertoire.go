package dataset

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Piece is one row of the repertoire table.
type Piece struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Lyricist string `json:"lyricist"`
}

// ComposerGroup lists the pieces of one composer in table order.
type ComposerGroup struct {
	Composer string  `json:"composer"`
	Pieces   []Piece `json:"pieces"`
}

// Repertoire reads the repertoire table.
func (s *Site) Repertoire() ([]Piece, error) {
	rows, err := s.read(RepertoirePath, readOptions{comment: '#'})
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(r row, _ int) Piece {
		return Piece{
			ID:       r["ID"],
			Title:    r["title"],
			Composer: norm.NFC.String(r["composer"]),
			Lyricist: r["lyricist"],
		}
	}), nil
}

// GroupByComposer groups pieces by composer, composers in the collation order of lang.
// An undefined tag sorts like Japanese.
func GroupByComposer(pieces []Piece, lang language.Tag) []ComposerGroup {
	grouped := lo.GroupBy(pieces, func(p Piece) string { return p.Composer })

	if lang == language.Und {
		lang = language.Japanese
	}

	composers := lo.Keys(grouped)
	col := collate.New(lang)
	sort.SliceStable(composers, func(i, j int) bool {
		if cmp := col.CompareString(composers[i], composers[j]); cmp != 0 {
			return cmp < 0
		}
		return composers[i] < composers[j]
	})

	return lo.Map(composers, func(c string, _ int) ComposerGroup {
		return ComposerGroup{Composer: c, Pieces: grouped[c]}
	})
}

// Catalog maps repertoire IDs to display names.
type Catalog map[string]string

// NewCatalog indexes the pieces that have an ID, a title and a composer.
func NewCatalog(pieces []Piece) Catalog {
	catalog := make(Catalog, len(pieces))
	for _, p := range pieces {
		if p.ID == "" || p.Title == "" || p.Composer == "" {
			continue
		}
		catalog[p.ID] = p.Composer + " - " + p.Title
	}
	return catalog
}

// FormatSongs expands a comma separated list of repertoire IDs. Unknown codes are kept as written.
func (c Catalog) FormatSongs(codes string) []string {
	if codes == "" {
		return nil
	}

	return lo.Map(strings.Split(codes, ","), func(code string, _ int) string {
		code = strings.TrimSpace(code)
		if name, ok := c[code]; ok {
			return name
		}
		return code
	})
}
