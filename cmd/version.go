package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/style"
)

type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"builtAt"`
	BuiltBy  string `json:"builtBy"`
	Platform string `json:"platform"`
	Go       string `json:"go"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Go:       runtime.Version(),
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()

		switch {
		case lo.Must(cmd.Flags().GetBool("short")):
			fmt.Println(info.Version)
		case lo.Must(cmd.Flags().GetBool("json")):
			printJSON(info)
		default:
			fmt.Printf("%s %s\n\n", style.Fg(color.Green)("♪"), style.Bold(constant.App))
			for _, row := range [][2]string{
				{"Version", info.Version},
				{"Revision", info.Revision},
				{"Built at", info.BuiltAt},
				{"Built by", info.BuiltBy},
				{"Platform", info.Platform},
				{"Go", info.Go},
			} {
				fmt.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-10s", row[0])), style.Bold(row[1]))
			}
		}
	},
}
