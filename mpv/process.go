// Package mpv provides the concrete playback engines behind the player controller.
// Audio and Video each drive their own mpv instance over its JSON-IPC interface.
package mpv

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yamanami-choir/yamanami/constant"
	"github.com/yamanami-choir/yamanami/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// process is one headless mpv instance listening on its own IPC socket.
type process struct {
	*client
	cmd    *exec.Cmd
	exited chan struct{} // closed when mpv exits
}

// spawn starts an idle mpv and waits until its IPC socket accepts connections.
// Only the socket and the caller's flags are passed so the user's mpv.conf still applies.
func spawn(bin string, extra ...string) (*process, error) {
	if bin == "" {
		bin = "mpv"
	}

	socket := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.sock", constant.App, uuid.NewString()[:8]))
	args := append([]string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		fmt.Sprintf("--input-ipc-server=%s", socket),
	}, extra...)

	cmd := exec.Command(bin, args...)

	// Detach from the parent process group so terminal signals aimed at the TUI don't reach mpv.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	p := &process{
		client: &client{socket: socket},
		cmd:    cmd,
		exited: make(chan struct{}),
	}

	// Reap the process to prevent zombies
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitForSocket(); err != nil {
		select {
		case <-p.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(cmd)
			<-p.exited
		}
		_ = os.Remove(socket)
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.WithFields(log.Fields{"socket": socket, "pid": cmd.Process.Pid}).Info("mpv started")
	return p, nil
}

func (p *process) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-p.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", p.socket)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", p.socket, socketWaitRetries)
}

// Running reports whether the mpv process is still alive.
func (p *process) Running() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// Close asks mpv to quit, kills it if it lingers and removes the socket.
func (p *process) Close() error {
	if p.Running() {
		_, _ = p.command("quit")

		select {
		case <-p.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(p.cmd)
			<-p.exited
		}
	}

	if err := os.Remove(p.socket); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

// sanitizeMediaTarget validates that a URL or path is safe to hand to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not start with - or mpv would read them as a flag
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// asFloat reads a numeric property value. mpv reports unavailable properties as null.
func asFloat(data interface{}) (float64, bool) {
	v, ok := data.(float64)
	return v, ok
}

func asBool(data interface{}) (value, ok bool) {
	value, ok = data.(bool)
	return
}
