package tui

import (
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/dataset"
	"github.com/yamanami-choir/yamanami/log"
)

// loadCards collects every playable entry of the site: the audio collection first,
// then the curated lists. The same recording may appear more than once.
func loadCards(site afero.Fs, contentDir string) ([]cardSpec, error) {
	entries, err := content.NewStore(site, contentDir).Audio()
	if err != nil {
		return nil, err
	}

	specs := lo.Map(entries, func(a content.Audio, _ int) cardSpec {
		return cardSpec{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Date:        a.Date,
			Duration:    a.Duration,
			AudioURL:    a.AudioURL,
			YoutubeID:   a.YoutubeID,
			Source:      content.AudioEntries.Name,
		}
	})

	sets := dataset.New(site)
	for _, name := range []string{"pickup", "recently"} {
		rows := sets.Audio(name)
		log.WithFields(log.Fields{"dataset": name, "rows": len(rows)}).Debug("loaded audio dataset")

		specs = append(specs, lo.Map(rows, func(r dataset.AudioRow, _ int) cardSpec {
			return cardSpec{
				ID:          name + "/" + r.ID,
				Title:       r.Title,
				Description: r.Description,
				Date:        r.Date,
				AudioURL:    r.AudioURL,
				YoutubeID:   r.YoutubeID,
				Source:      name,
			}
		})...)
	}

	return specs, nil
}
