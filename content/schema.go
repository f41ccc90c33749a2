// Package content loads the site's markdown collections and validates their front matter.
package content

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrValidation reports front matter that does not satisfy its collection schema.
var ErrValidation = errors.New("invalid front matter")

// Kind is the type a front matter field must have.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	// KindDate accepts dates and anything that can be coerced into one.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// Field is one front matter key of a collection.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Schema lists the fields of a collection. Keys not in the schema are kept untouched.
type Schema []Field

// Collection names a directory under the content root and the files it contains.
type Collection struct {
	Name       string
	Extensions []string
	Schema     Schema
}

var (
	Posts = Collection{
		Name:       "posts",
		Extensions: []string{".md", ".mdx"},
		Schema: Schema{
			{Name: "title", Kind: KindString},
			{Name: "pubDate", Kind: KindDate},
			{Name: "image", Kind: KindString, Optional: true},
		},
	}

	About = Collection{
		Name:       "about",
		Extensions: []string{".md"},
	}

	AudioEntries = Collection{
		Name:       "audio",
		Extensions: []string{".md"},
		Schema: Schema{
			{Name: "title", Kind: KindString},
			{Name: "description", Kind: KindString},
			{Name: "audioUrl", Kind: KindString},
			{Name: "youtubeId", Kind: KindString, Optional: true},
			{Name: "date", Kind: KindString},
			{Name: "duration", Kind: KindString, Optional: true},
			{Name: "size", Kind: KindNumber, Optional: true},
			{Name: "cover", Kind: KindString, Optional: true},
		},
	}
)

// Collections lists every known collection by name.
var Collections = map[string]Collection{
	Posts.Name:        Posts,
	About.Name:        About,
	AudioEntries.Name: AudioEntries,
}

// Validate checks data against the schema and returns a copy with dates coerced to time.Time
// and numbers widened to float64. All problems are reported together.
func (s Schema) Validate(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}

	var problems []string
	for _, field := range s {
		value, ok := data[field.Name]
		if !ok || value == nil {
			if !field.Optional {
				problems = append(problems, fmt.Sprintf("%s: required", field.Name))
			}
			delete(out, field.Name)
			continue
		}

		coerced, err := field.Kind.coerce(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", field.Name, err))
			continue
		}
		out[field.Name] = coerced
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return out, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

func (k Kind) coerce(value any) (any, error) {
	switch k {
	case KindString:
		switch v := value.(type) {
		case string:
			return v, nil
		case time.Time:
			// unquoted YAML timestamps in string fields
			return v.Format("2006-01-02"), nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)

	case KindNumber:
		switch v := value.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case uint64:
			return float64(v), nil
		case float64:
			if math.IsNaN(v) {
				return nil, errors.New("expected number, got NaN")
			}
			return v, nil
		}
		return nil, fmt.Errorf("expected number, got %T", value)

	case KindDate:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case int:
			return time.UnixMilli(int64(v)).UTC(), nil
		case int64:
			return time.UnixMilli(v).UTC(), nil
		case float64:
			return time.UnixMilli(int64(v)).UTC(), nil
		case string:
			s := strings.TrimSpace(v)
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("cannot read %q as a date", v)
		}
		return nil, fmt.Errorf("expected date, got %T", value)
	}

	return nil, fmt.Errorf("unknown kind %d", k)
}
