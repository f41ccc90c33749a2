package dataset

import (
	"github.com/samber/lo"
	"github.com/yamanami-choir/yamanami/log"
)

// Datasets maps the curated audio list names to their tables.
var Datasets = map[string]string{
	"pickup":   PickupPath,
	"recently": RecentlyPath,
}

// AudioRow is one entry of a curated audio list.
type AudioRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AudioURL    string `json:"audioUrl"`
	YoutubeID   string `json:"youtubeId,omitempty"`
	Date        string `json:"date"`
}

// Audio reads the named curated list. Values are trimmed and rows without an id, a title
// or an audio URL are dropped. An unknown name or an unreadable table yields an empty list.
func (s *Site) Audio(dataset string) []AudioRow {
	path, ok := Datasets[dataset]
	if !ok {
		log.WithFields(log.Fields{"dataset": dataset}).Warn("unknown audio dataset")
		return nil
	}

	rows, err := s.read(path, readOptions{trim: true})
	if err != nil {
		log.WithFields(log.Fields{"dataset": dataset, "path": path}).Errorf("failed to parse audio dataset: %v", err)
		return nil
	}

	entries := lo.Map(rows, func(r row, _ int) AudioRow {
		return AudioRow{
			ID:          r["id"],
			Title:       r["title"],
			Description: r["description"],
			AudioURL:    r["audioUrl"],
			YoutubeID:   r["youtubeId"],
			Date:        r["date"],
		}
	})
	return lo.Filter(entries, func(a AudioRow, _ int) bool {
		return a.ID != "" && a.Title != "" && a.AudioURL != ""
	})
}
