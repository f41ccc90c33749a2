package dataset

import (
	"sort"

	"github.com/samber/lo"
)

// Concert is one row of the concert history table.
type Concert struct {
	ID    string `json:"id"`
	Year  string `json:"year"`
	Month string `json:"month"`
	Date  string `json:"date"`
	Name  string `json:"name"`
	Venue string `json:"venue"`
	Songs string `json:"songs"`
	URL   string `json:"url"`
}

func (c Concert) dayOfYear() int {
	return leadingInt(c.Month)*100 + leadingInt(c.Date)
}

// YearGroup holds the concerts of one year, latest first.
type YearGroup struct {
	Year     string    `json:"year"`
	Concerts []Concert `json:"concerts"`
}

// Concerts reads the concert history table.
func (s *Site) Concerts() ([]Concert, error) {
	rows, err := s.read(ConcertsPath, readOptions{comment: '#'})
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(r row, _ int) Concert {
		return Concert{
			ID:    r["ID"],
			Year:  r["year"],
			Month: r["month"],
			Date:  r["date"],
			Name:  r["name"],
			Venue: r["venue"],
			Songs: r["songs"],
			URL:   r["url"],
		}
	}), nil
}

// GroupByYear groups concerts by year. Years are ordered newest first by their numeric
// value, and concerts within a year by month and day, newest first.
func GroupByYear(concerts []Concert) []YearGroup {
	grouped := lo.GroupBy(concerts, func(c Concert) string { return c.Year })

	years := lo.Keys(grouped)
	sort.SliceStable(years, func(i, j int) bool {
		a, b := leadingInt(years[i]), leadingInt(years[j])
		if a == b {
			return years[i] > years[j]
		}
		return a > b
	})

	return lo.Map(years, func(year string, _ int) YearGroup {
		list := grouped[year]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].dayOfYear() > list[j].dayOfYear()
		})
		return YearGroup{Year: year, Concerts: list}
	})
}
