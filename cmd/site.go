package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/content"
	"github.com/yamanami-choir/yamanami/dataset"
	"github.com/yamanami-choir/yamanami/filesystem"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/util"
	"golang.org/x/text/language"
)

func siteDatasets() *dataset.Site {
	return dataset.New(filesystem.Rooted(config.SiteRoot()))
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(v))
}

func init() {
	rootCmd.AddCommand(concertsCmd)
	concertsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	concertsCmd.Flags().StringP("year", "y", "", "Only show concerts of this year")
}

var concertsCmd = &cobra.Command{
	Use:   "concerts",
	Short: "Show the concert history grouped by year",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		site := siteDatasets()

		concerts, err := site.Concerts()
		handleErr(err)
		pieces, err := site.Repertoire()
		handleErr(err)
		catalog := dataset.NewCatalog(pieces)

		groups := dataset.GroupByYear(concerts)
		if year := lo.Must(cmd.Flags().GetString("year")); year != "" {
			groups = lo.Filter(groups, func(g dataset.YearGroup, _ int) bool {
				return g.Year == year
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(groups)
			return
		}

		for i, group := range groups {
			fmt.Println(style.Title(group.Year))
			for _, c := range group.Concerts {
				fmt.Printf("%s %s %s\n",
					style.Fg(color.Purple)(fmt.Sprintf("%s/%s", c.Month, c.Date)),
					style.Bold(c.Name),
					style.Faint(c.Venue),
				)
				for _, song := range catalog.FormatSongs(c.Songs) {
					fmt.Printf("    %s\n", song)
				}
				if c.URL != "" {
					fmt.Printf("    %s\n", style.Fg(color.Blue)(c.URL))
				}
			}

			if i < len(groups)-1 {
				fmt.Println()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(repertoireCmd)
	repertoireCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var repertoireCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Show the repertoire grouped by composer",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		pieces, err := siteDatasets().Repertoire()
		handleErr(err)

		lang, err := language.Parse(viper.GetString(key.SiteLanguage))
		if err != nil {
			lang = language.Japanese
		}
		groups := dataset.GroupByComposer(pieces, lang)
		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(groups)
			return
		}

		for _, group := range groups {
			composer := group.Composer
			if composer == "" {
				composer = "-"
			}
			fmt.Printf("%s %s\n", style.Bold(composer), style.Faint(util.Quantify(len(group.Pieces), "piece", "pieces")))
			for _, p := range group.Pieces {
				line := "  " + p.Title
				if p.Lyricist != "" {
					line += " " + style.Faint("("+p.Lyricist+")")
				}
				fmt.Println(line)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)
	postsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List published posts, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := content.NewStore(filesystem.Rooted(config.SiteRoot()), constant.ContentDir)
		posts, err := store.Posts()
		handleErr(err)

		posts = content.SortedPosts(posts, time.Now())

		if lo.Must(cmd.Flags().GetBool("json")) {
			printJSON(posts)
			return
		}

		for _, p := range posts {
			fmt.Printf("%s %s %s\n",
				style.Fg(color.Purple)(p.PubDate.Format("2006-01-02")),
				style.Bold(p.Title),
				style.Faint(strings.TrimSuffix(p.ID, "/index")),
			)
		}
	},
}
