// Package open launches URLs with the system's default handler.
package open

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/log"
)

// ErrNotWebURL is returned for anything that is not an absolute http or https URL.
var ErrNotWebURL = errors.New("not a web url")

// Browser opens u in the default browser without waiting for it to exit.
func Browser(u string) error {
	if err := checkURL(u); err != nil {
		return err
	}

	cmd, ok := command(runtime.GOOS, u)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	log.Infof("opening %s with %s", u, cmd.Path)
	return cmd.Start()
}

func checkURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotWebURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrNotWebURL, u)
	}
	return nil
}

func command(goos, input string) (*exec.Cmd, bool) {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), true
	case constant.Darwin:
		return exec.Command("open", input), true
	case constant.Linux:
		return exec.Command("xdg-open", input), true
	case constant.Android:
		return exec.Command("termux-open-url", input), true
	default:
		return nil, false
	}
}
