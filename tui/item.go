package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/media"
	"github.com/yamanami-choir/yamanami/style"
)

// listItem implements the list.Item interface for a card.
type listItem struct {
	card *card
}

var _ list.DefaultItem = (*listItem)(nil)

func (t *listItem) kindIcon() string {
	ref, ok := media.Resolve(t.card.spec.AudioURL, t.card.spec.YoutubeID, "")
	if !ok {
		return ""
	}
	if ref.Kind() == media.KindEmbedded {
		return icon.Get(icon.Video)
	}
	return icon.Get(icon.Audio)
}

// Title renders the card heading with its checked mark.
func (t *listItem) Title() string {
	var sb strings.Builder
	if k := t.kindIcon(); k != "" {
		sb.WriteString(k)
		sb.WriteString(" ")
	}
	sb.WriteString(t.card.spec.Title)

	if checked, _ := t.card.status(); checked {
		sb.WriteString(" ")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(style.Accent).Render(icon.Get(icon.Play)))
	}
	return sb.String()
}

// Description renders the card's date, duration and text.
func (t *listItem) Description() string {
	spec := t.card.spec

	parts := make([]string, 0, 3)
	if spec.Date != "" {
		parts = append(parts, spec.Date)
	}
	if spec.Duration != "" {
		parts = append(parts, spec.Duration)
	}
	if spec.Description != "" {
		parts = append(parts, spec.Description)
	}
	description := strings.Join(parts, " · ")

	if viper.GetBool(key.TUIShowURLs) {
		ref := spec.AudioURL
		if spec.YoutubeID != "" {
			ref = media.WatchURL(spec.YoutubeID)
		}
		description = fmt.Sprintf("%s\n%s", description, style.Faint(ref))
	}

	if _, active := t.card.status(); active {
		return style.Fg(style.Accent)(description)
	}
	return description
}

// FilterValue is matched against the filter input.
func (t *listItem) FilterValue() string {
	return t.card.spec.Title + " " + t.card.spec.Description
}

// fuzzyFilter ranks items with fuzzysearch instead of the list's default matcher.
func fuzzyFilter(term string, targets []string) []list.Rank {
	ranks := fuzzy.RankFindNormalizedFold(term, targets)
	sort.Stable(ranks)

	out := make([]list.Rank, len(ranks))
	for i, r := range ranks {
		out[i] = list.Rank{Index: r.OriginalIndex, MatchedIndexes: matched(term, r.Target)}
	}
	return out
}

// matched returns the rune positions of target that spell term in order, case-insensitively.
func matched(term, target string) []int {
	needle := []rune(strings.ToLower(term))
	if len(needle) == 0 {
		return nil
	}

	var indexes []int
	n := 0
	for i, r := range []rune(strings.ToLower(target)) {
		if n < len(needle) && r == needle[n] {
			indexes = append(indexes, i)
			n++
		}
	}
	return indexes
}
