// Package cmd implements the command-line interface for yamanami.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/log"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/tui"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("root", "r", "", "Site root holding src/content")
	lo.Must0(rootCmd.MarkPersistentFlagDirname("root"))
	lo.Must0(viper.BindPFlag(key.SiteRoot, rootCmd.PersistentFlags().Lookup("root")))

	rootCmd.Flags().BoolP("watch", "w", true, "Reload the cards when content files change")
	lo.Must0(viper.BindPFlag(key.PlayerWatchContent, rootCmd.Flags().Lookup("watch")))

	rootCmd.Flags().String("mpv", "", "Path to the mpv executable")
	lo.Must0(viper.BindPFlag(key.PlayerMPVPath, rootCmd.Flags().Lookup("mpv")))
}

// rootCmd opens the audio page of the site.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Play the choir club's recordings from the terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiPurple).Render("    - Play the choir club's recordings from the terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		mpvPath := viper.GetString(key.PlayerMPVPath)
		CheckDependencies(mpvPath)

		options := tui.Options{
			SiteRoot:     config.SiteRoot(),
			Title:        viper.GetString(key.SiteTitle),
			Origin:       viper.GetString(key.SiteOrigin),
			ContainerID:  viper.GetString(key.PlayerEmbeddedContainer),
			PollInterval: config.PollInterval(),
			SeekStep:     viper.GetFloat64(key.PlayerSeekStep),
			MPV:          mpvPath,
			Watch:        viper.GetBool(key.PlayerWatchContent),
		}
		handleErr(tui.Run(cmd.Context(), &options))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
