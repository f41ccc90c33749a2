package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/icon"
	"github.com/yamanami-choir/yamanami/style"
)

// installHints maps a tool to the package that provides it on each platform.
var installHints = map[string]map[string]string{
	"mpv": {
		constant.Darwin:  "brew install mpv",
		constant.Linux:   "sudo apt install mpv",
		constant.Windows: "scoop install mpv",
	},
	"ffmpeg": {
		constant.Darwin:  "brew install ffmpeg",
		constant.Linux:   "sudo apt install ffmpeg",
		constant.Windows: "scoop install ffmpeg",
	},
	"youtubeuploader": {
		constant.Darwin:  "brew install youtubeuploader",
		constant.Linux:   "go install github.com/porjo/youtubeuploader/cmd/youtubeuploader@latest",
		constant.Windows: "scoop install youtubeuploader",
	},
}

// CheckDependencies exits with an explanation when one of the given executables is not on PATH.
func CheckDependencies(tools ...string) {
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			printMissingDependencyError(tool)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep string) {
	name := filepath.Base(dep)
	installCmd := installHints[name][runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Danger).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Danger).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Accent).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
