package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/where"
)

type wherePath struct {
	name     string
	resolve  func() string
	detailed bool
}

var wherePaths = []wherePath{
	{"config", where.Config, false},
	{"content", config.ContentDir, false},
	{"logs", where.Logs, false},
	{"cache", where.Cache, true},
	{"probes", where.Probes, true},
	{"temp", where.Temp, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.Flags().BoolP("all", "a", false, "Also show cache and temporary paths")
}

var whereCmd = &cobra.Command{
	Use:   "where [name]",
	Short: "Display the paths used by the application",
	Long: fmt.Sprintf("Display the paths used by the application.\nNames: %s",
		strings.Join(lo.Map(wherePaths, func(p wherePath, _ int) string { return p.name }), ", ")),
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(wherePaths, func(p wherePath, _ int) string { return p.name }), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			p, ok := lo.Find(wherePaths, func(p wherePath) bool { return p.name == args[0] })
			if !ok {
				handleErr(fmt.Errorf("unknown path %s", args[0]))
			}
			fmt.Println(p.resolve())
			return
		}

		all := lo.Must(cmd.Flags().GetBool("all"))
		shown := lo.Filter(wherePaths, func(p wherePath, _ int) bool {
			return all || !p.detailed
		})

		width := lo.Max(lo.Map(shown, func(p wherePath, _ int) int { return len(p.name) }))
		for _, p := range shown {
			name := fmt.Sprintf("%-*s", width, p.name)
			fmt.Printf("%s  %s\n", style.New().Bold(true).Foreground(color.HiPurple).Render(name), p.resolve())
		}
	},
}
