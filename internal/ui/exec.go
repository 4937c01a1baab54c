package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/noborus/ov/oviewer"
)

var (
	clipboardWrite = clipboard.WriteAll
	openTarget     = systemOpen
)

func systemOpen(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	_, err := startDetached(cmd)
	return err
}

// startDetached starts cmd and reaps it in the background. The returned
// channel receives the exit status.
func startDetached(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}

// pager shows a file in the ov pager. It satisfies tea.ExecCommand so the
// program releases the terminal while it runs.
type pager struct {
	path   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newPager(path string) *pager {
	return &pager{path: path}
}

func (p *pager) SetStdin(r io.Reader)  { p.stdin = r }
func (p *pager) SetStdout(w io.Writer) { p.stdout = w }
func (p *pager) SetStderr(w io.Writer) { p.stderr = w }

func (p *pager) Run() error {
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	defer f.Close()

	root, err := oviewer.NewRoot(f)
	if err != nil {
		return err
	}
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)
	return root.Run()
}
