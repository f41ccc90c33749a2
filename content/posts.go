package content

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yamanami-choir/yamanami/constant"
)

// Post is an entry of the posts collection.
type Post struct {
	ID      string    `json:"id" jsonschema:"description=Path below src/content/posts without extension"`
	Title   string    `json:"title" jsonschema:"required"`
	PubDate time.Time `json:"pubDate" jsonschema:"required"`
	Image   string    `json:"image,omitempty"`
	Body    string    `json:"-"`
}

// Draft reports whether the post is hidden from listings. Drafts have a file name starting with _.
func (p Post) Draft() bool {
	return strings.HasPrefix(p.ID, "_")
}

// Posts loads the posts collection.
func (s *Store) Posts() ([]Post, error) {
	entries, err := s.Entries(Posts)
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(e Entry, _ int) Post {
		pub, _ := e.Data["pubDate"].(time.Time)
		return Post{
			ID:      e.ID,
			Title:   str(e.Data, "title"),
			PubDate: pub,
			Image:   str(e.Data, "image"),
			Body:    e.Body,
		}
	}), nil
}

// FilteredPosts drops drafts.
func FilteredPosts(posts []Post) []Post {
	return lo.Reject(posts, func(p Post, _ int) bool { return p.Draft() })
}

// SortedPosts returns the published posts newest first. The about post is dated one day
// after now so it always leads the list.
func SortedPosts(posts []Post, now time.Time) []Post {
	sorted := lo.Map(FilteredPosts(posts), func(p Post, _ int) Post {
		if p.Title == constant.AboutPostTitle {
			p.PubDate = now.AddDate(0, 0, 1)
		}
		return p
	})

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PubDate.After(sorted[j].PubDate)
	})
	return sorted
}
