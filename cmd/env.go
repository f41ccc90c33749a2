package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/where"
	"golang.org/x/exp/slices"
)

type envVar struct {
	name        string
	description string
}

// envVars lists every variable the application reads, sorted by name.
func envVars() []envVar {
	vars := lo.MapToSlice(config.Default, func(_ string, f config.Field) envVar {
		return envVar{name: f.Env(), description: f.Description}
	})
	vars = append(vars, envVar{name: where.EnvConfigPath, description: "Directory holding the config file"})

	slices.SortFunc(vars, func(a, b envVar) int {
		return strings.Compare(a.name, b.name)
	})
	return vars
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.Flags().BoolP("describe", "d", false, "Show what each variable controls")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the environment variables the application reads",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			describe  = lo.Must(cmd.Flags().GetBool("describe"))
		)

		for _, v := range envVars() {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			shown := style.Fg(color.Red)("unset")
			if present {
				shown = style.Fg(color.Green)(value)
			}
			fmt.Printf("%s=%s\n", style.New().Bold(true).Foreground(color.Purple).Render(v.name), shown)

			if describe {
				fmt.Printf("  %s\n", style.Faint(v.description))
			}
		}
	},
}
