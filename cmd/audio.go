package cmd

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/dataset"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/media"
	"github.com/yamanami-choir/yamanami/open"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/util"
)

// audioItem is a playable entry from either the audio collection or a CSV dataset.
type audioItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Duration    string `json:"duration,omitempty"`
	URL         string `json:"url"`
}

func (a audioItem) pretty() string {
	var b strings.Builder
	b.WriteString(style.Bold(a.Title))
	b.WriteString(" ")
	b.WriteString(style.Faint(a.ID))

	meta := lo.Compact([]string{a.Date, a.Duration})
	if len(meta) > 0 {
		b.WriteString("\n  ")
		b.WriteString(style.Fg(color.Purple)(strings.Join(meta, " · ")))
	}
	if a.Description != "" {
		b.WriteString("\n  ")
		b.WriteString(a.Description)
	}
	b.WriteString("\n  ")
	b.WriteString(style.Fg(color.Blue)(a.URL))
	return b.String()
}

// playableURL returns what a browser should open for the given attributes.
func playableURL(audioURL, videoID string) string {
	ref, ok := media.Resolve(audioURL, videoID, viper.GetString(key.SiteOrigin))
	if !ok {
		return ""
	}
	if ref.EmbeddedID != "" {
		return media.WatchURL(ref.EmbeddedID)
	}
	return ref.LocalURL
}

func loadAudioItems(name string) ([]audioItem, error) {
	site := filesystem.Rooted(config.SiteRoot())

	if name != "" {
		if _, ok := dataset.Datasets[name]; !ok {
			return nil, fmt.Errorf("unknown dataset %s, available: %s", name, strings.Join(datasetNames(), ", "))
		}

		rows := dataset.New(site).Audio(name)
		return lo.Map(rows, func(r dataset.AudioRow, _ int) audioItem {
			return audioItem{
				ID:          name + "/" + r.ID,
				Title:       r.Title,
				Description: r.Description,
				Date:        r.Date,
				URL:         playableURL(r.AudioURL, r.YoutubeID),
			}
		}), nil
	}

	entries, err := content.NewStore(site, constant.ContentDir).Audio()
	if err != nil {
		return nil, err
	}

	return lo.Map(entries, func(a content.Audio, _ int) audioItem {
		return audioItem{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Date:        a.Date,
			Duration:    a.Duration,
			URL:         playableURL(a.AudioURL, a.YoutubeID),
		}
	}), nil
}

func datasetNames() []string {
	names := lo.Keys(dataset.Datasets)
	sort.Strings(names)
	return names
}

func completionDatasets(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return datasetNames(), cobra.ShellCompDirectiveNoFileComp
}

func printAudioItems(cmd *cobra.Command, items []audioItem) {
	if lo.Must(cmd.Flags().GetBool("json")) {
		handleErr(json.NewEncoder(os.Stdout).Encode(items))
		return
	}

	for i, item := range items {
		fmt.Println(item.pretty())
		if i < len(items)-1 {
			fmt.Println()
		}
	}
}

func init() {
	rootCmd.AddCommand(audioCmd)

	audioCmd.PersistentFlags().StringP("dataset", "d", "", "Read a CSV dataset instead of the audio collection")
	_ = audioCmd.RegisterFlagCompletionFunc("dataset", completionDatasets)
	audioCmd.PersistentFlags().BoolP("json", "j", false, "Format the output as JSON")
}

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Browse the site's recordings",
}

func init() {
	audioCmd.AddCommand(audioListCmd)
}

var audioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recording",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		items, err := loadAudioItems(lo.Must(cmd.Flags().GetString("dataset")))
		handleErr(err)

		printAudioItems(cmd, items)
		if !lo.Must(cmd.Flags().GetBool("json")) {
			fmt.Println()
			fmt.Println(style.Faint(util.Quantify(len(items), "recording", "recordings")))
		}
	},
}

func init() {
	audioCmd.AddCommand(audioRandomCmd)
	audioRandomCmd.Flags().BoolP("open", "o", false, "Open the picked recording in the browser")
}

var audioRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a recording at random",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		site := filesystem.Rooted(config.SiteRoot())
		entries, err := content.NewStore(site, constant.ContentDir).Audio()
		handleErr(err)

		picked, ok := content.RandomAudio(entries, rand.New(rand.NewSource(time.Now().UnixNano()))).Get()
		if !ok {
			handleErr(fmt.Errorf("no recordings under %s", config.ContentDir()))
		}

		item := audioItem{
			ID:          picked.ID,
			Title:       picked.Title,
			Description: picked.Description,
			Date:        picked.Date,
			Duration:    picked.Duration,
			URL:         playableURL(picked.AudioURL, picked.YoutubeID),
		}
		printAudioItems(cmd, []audioItem{item})

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Browser(item.URL))
		}
	},
}

func init() {
	audioCmd.AddCommand(audioSearchCmd)
	audioSearchCmd.Flags().IntP("limit", "n", 10, "Maximum number of matches to show")
}

var audioSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search recordings by title and description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		items, err := loadAudioItems(lo.Must(cmd.Flags().GetString("dataset")))
		handleErr(err)

		query := strings.Join(args, " ")
		targets := lo.Map(items, func(a audioItem, _ int) string {
			return a.Title + " " + a.Description
		})

		ranks := fuzzy.RankFindNormalizedFold(query, targets)
		sort.Stable(ranks)

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		if limit > 0 && len(ranks) > limit {
			ranks = ranks[:limit]
		}

		matches := lo.Map(ranks, func(r fuzzy.Rank, _ int) audioItem {
			return items[r.OriginalIndex]
		})

		if len(matches) == 0 && !lo.Must(cmd.Flags().GetBool("json")) {
			fmt.Printf("%s nothing matches %s\n", icon.Get(icon.Search), style.Fg(color.Yellow)(query))
			return
		}

		printAudioItems(cmd, matches)
	},
}

func init() {
	audioCmd.AddCommand(audioOpenCmd)
}

var audioOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a recording in the browser",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		items, err := loadAudioItems(lo.Must(cmd.Flags().GetString("dataset")))
		handleErr(err)

		item, ok := lo.Find(items, func(a audioItem) bool {
			return a.ID == args[0]
		})
		if !ok {
			handleErr(fmt.Errorf("no recording with id %s", args[0]))
		}

		handleErr(open.Browser(item.URL))
		fmt.Printf("%s opened %s\n", icon.Get(icon.Success), style.Fg(color.Blue)(item.URL))
	},
}
