package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yamanami-choir/yamanami/color"
	"github.com/yamanami-choir/yamanami/config"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/key"
	"github.com/yamanami-choir/yamanami/open"
	"github.com/yamanami-choir/yamanami/probe"
	"github.com/yamanami-choir/yamanami/style"
	"github.com/yamanami-choir/yamanami/upload"
	"github.com/yamanami-choir/yamanami/util"
	"golang.org/x/term"
)

var stepMessages = map[upload.Step]string{
	upload.StepEncode:  "Encoding video",
	upload.StepUpload:  "Uploading video",
	upload.StepCleanup: "Removing temporary video",
	upload.StepProbe:   "Looking up duration",
	upload.StepWrite:   "Writing audio entry",
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().BoolP("yes", "y", false, "Do not prompt for a missing title or description")
	uploadCmd.Flags().BoolP("open", "o", false, "Open the uploaded video in the browser")
	uploadCmd.Flags().String("privacy", "", "Privacy status of the uploaded video")
	lo.Must0(viper.BindPFlag(key.UploadPrivacy, uploadCmd.Flags().Lookup("privacy")))
	uploadCmd.Flags().String("image", "", "Still image shown in the video")
	lo.Must0(viper.BindPFlag(key.UploadImage, uploadCmd.Flags().Lookup("image")))
	uploadCmd.Flags().Bool("probe", true, "Fill in the duration from the published video")
	lo.Must0(viper.BindPFlag(key.UploadProbe, uploadCmd.Flags().Lookup("probe")))
}

var uploadCmd = &cobra.Command{
	Use:   "upload <audio-file> <directory> [title] [description]",
	Short: "Publish a recording as a video and add it to the audio collection",
	Long: `Combine the recording with a still image, upload the result as a video and write
a new entry to src/content/audio/<directory>.`,
	Args: cobra.RangeArgs(2, 4),
	Run: func(cmd *cobra.Command, args []string) {
		req := upload.Request{
			AudioPath: args[0],
			Directory: args[1],
		}
		if len(args) > 2 {
			req.Title = args[2]
		}
		if len(args) > 3 {
			req.Description = args[3]
		}

		if !lo.Must(cmd.Flags().GetBool("yes")) && term.IsTerminal(int(os.Stdin.Fd())) {
			promptMissing(&req)
		}

		ffmpeg := viper.GetString(key.UploadFFmpegPath)
		uploader := viper.GetString(key.UploadUploaderPath)
		tools := []string{ffmpeg}
		if !strings.ContainsRune(uploader, filepath.Separator) {
			tools = append(tools, uploader)
		}
		CheckDependencies(tools...)

		var erase func()
		options := upload.Options{
			SiteRoot:           config.SiteRoot(),
			FFmpeg:             ffmpeg,
			Uploader:           uploader,
			Image:              viper.GetString(key.UploadImage),
			Privacy:            viper.GetString(key.UploadPrivacy),
			DefaultDescription: viper.GetString(key.UploadDefaultDescription),
			OnStep: func(step upload.Step) {
				if erase != nil {
					erase()
				}
				erase = util.PrintErasable(fmt.Sprintf("%s %s...", icon.Get(icon.Progress), stepMessages[step]))
			},
		}
		if viper.GetBool(key.UploadProbe) {
			options.Prober = probe.New()
		}

		result, err := upload.Upload(cmd.Context(), options, req)
		if erase != nil {
			erase()
		}
		handleErr(err)

		fmt.Printf("%s uploaded %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(result.Entry.Title))
		fmt.Printf("  %s %s\n", style.Faint("video"), style.Fg(color.Blue)(result.URL))
		fmt.Printf("  %s %s\n", style.Faint("entry"), result.Markdown)
		if result.Entry.Duration != "" {
			fmt.Printf("  %s %s\n", style.Faint("duration"), result.Entry.Duration)
		}

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Browser(result.URL))
		}
	},
}

// promptMissing asks for the title and description when they were not given as arguments.
func promptMissing(req *upload.Request) {
	if req.Title == "" {
		input := survey.Input{
			Message: "Title:",
			Default: strings.ReplaceAll(util.FileStem(req.AudioPath), "_", " "),
		}
		handleErr(survey.AskOne(&input, &req.Title))
	}

	if req.Description == "" {
		input := survey.Input{
			Message: "Description:",
			Default: viper.GetString(key.UploadDefaultDescription),
			Help:    "Shown on the video page and on the audio card",
		}
		handleErr(survey.AskOne(&input, &req.Description))
	}
}
