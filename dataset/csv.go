// Package dataset reads the site's CSV tables: concert history, repertoire and the curated
// audio lists shown on the front page.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// Paths of the tables, relative to the site root.
const (
	ConcertsPath   = "src/content/history/concert.csv"
	RepertoirePath = "src/content/history/repertoire.csv"
	PickupPath     = "src/content/audio/pickup.csv"
	RecentlyPath   = "src/content/audio/recently.csv"
)

// Site reads tables from a filesystem rooted at the site directory.
type Site struct {
	fs afero.Fs
}

// New returns a Site reading from fs. Paths are resolved relative to its root.
func New(fs afero.Fs) *Site {
	return &Site{fs: fs}
}

type readOptions struct {
	comment rune
	trim    bool
}

// row is one record keyed by header name. Missing trailing cells read as "".
type row map[string]string

func (s *Site) read(path string, opts readOptions) ([]row, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	rows, err := parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

func parse(r io.Reader, opts readOptions) ([]row, error) {
	reader := csv.NewReader(r)
	reader.Comment = opts.comment
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}

		r := make(row, len(header))
		for i, name := range header {
			if i >= len(record) {
				r[name] = ""
				continue
			}
			value := record[i]
			if opts.trim {
				value = strings.TrimSpace(value)
			}
			r[name] = value
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

// leadingInt reads the integer prefix of s, ignoring leading spaces. It returns 0 when s
// does not start with a number.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	sign, n, digits := 1, 0, 0
	for i, r := range s {
		if i == 0 && (r == '-' || r == '+') {
			if r == '-' {
				sign = -1
			}
			continue
		}
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}
	return sign * n
}
