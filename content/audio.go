package content

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Audio is an entry of the audio collection: a playable card on the site.
type Audio struct {
	ID          string   `json:"id"`
	Title       string   `json:"title" jsonschema:"required"`
	Description string   `json:"description" jsonschema:"required"`
	AudioURL    string   `json:"audioUrl" jsonschema:"required,description=Local audio path or hosted video URL"`
	YoutubeID   string   `json:"youtubeId,omitempty" jsonschema:"description=Hosted video id; takes precedence over audioUrl"`
	Date        string   `json:"date" jsonschema:"required"`
	Duration    string   `json:"duration,omitempty" jsonschema:"description=mm:ss or hh:mm:ss"`
	Size        *float64 `json:"size,omitempty"`
	Cover       string   `json:"cover,omitempty"`
}

// Seconds returns the entry's duration in seconds, 0 when unknown.
func (a Audio) Seconds() int {
	return ParseDuration(a.Duration)
}

// Audio loads the audio collection.
func (s *Store) Audio() ([]Audio, error) {
	entries, err := s.Entries(AudioEntries)
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(e Entry, _ int) Audio {
		a := Audio{
			ID:          e.ID,
			Title:       str(e.Data, "title"),
			Description: str(e.Data, "description"),
			AudioURL:    str(e.Data, "audioUrl"),
			YoutubeID:   str(e.Data, "youtubeId"),
			Date:        str(e.Data, "date"),
			Duration:    str(e.Data, "duration"),
			Cover:       str(e.Data, "cover"),
		}
		if size, ok := e.Data["size"].(float64); ok {
			a.Size = &size
		}
		return a
	}), nil
}

// RandomAudio picks one entry, or None when there are none.
func RandomAudio(entries []Audio, rng *rand.Rand) mo.Option[Audio] {
	if len(entries) == 0 {
		return mo.None[Audio]()
	}
	return mo.Some(entries[rng.Intn(len(entries))])
}

// ParseDuration converts "mm:ss" or "hh:mm:ss" to seconds. Any other shape, or a
// non-numeric part, yields 0.
func ParseDuration(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
