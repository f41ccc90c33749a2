package content

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/yamanami-choir/yamanami/log"
)

// Entry is one validated document of a collection.
type Entry struct {
	// ID is the slash-separated path below the collection directory, without extension.
	ID         string
	Collection string
	Data       map[string]any
	Body       string
}

// Store reads collections below a content directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a Store rooted at dir on fs.
func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// Entries loads and validates every document of c, ordered by ID.
// A missing collection directory yields no entries; any invalid document fails the whole load.
func (s *Store) Entries(c Collection) ([]Entry, error) {
	root := filepath.Join(s.dir, c.Name)

	exists, err := afero.DirExists(s.fs, root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !exists {
		log.WithFields(log.Fields{"collection": c.Name, "dir": root}).Debug("collection directory missing")
		return nil, nil
	}

	var entries []Entry
	err = afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !lo.Contains(c.Extensions, strings.ToLower(filepath.Ext(p))) {
			return nil
		}

		entry, err := s.load(c, root, p)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *Store) load(c Collection, root, p string) (Entry, error) {
	raw, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", p, err)
	}

	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", p, err)
	}

	data, err := c.Schema.Validate(meta)
	if err != nil {
		return Entry{}, fmt.Errorf("%s/%s: %w", c.Name, filepath.Base(p), err)
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = filepath.Base(p)
	}
	rel = filepath.ToSlash(rel)

	return Entry{
		ID:         strings.TrimSuffix(rel, path.Ext(rel)),
		Collection: c.Name,
		Data:       data,
		Body:       string(body),
	}, nil
}

func str(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}
