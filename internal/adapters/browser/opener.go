package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"

	"navhub/internal/ports"
)

// Opener implements ports.URLOpener
type Opener struct {
	goos     string
	lookPath func(string) (string, error)
}

// Ensure Opener implements URLOpener
var _ ports.URLOpener = (*Opener)(nil)

// NewOpener creates a new browser opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// Open opens rawURL in the user's browser without waiting for it to exit
func (o *Opener) Open(rawURL string) error {
	cmd, err := o.Command(rawURL)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return cmd.Process.Release()
}

// Command returns an exec.Cmd that opens rawURL.
// Only http and https URLs are accepted.
func (o *Opener) Command(rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	name, args, err := o.findBrowser()
	if err != nil {
		return nil, err
	}
	return exec.Command(name, append(args, u.String())...), nil
}

// findBrowser returns the launcher for the platform
func (o *Opener) findBrowser() (string, []string, error) {
	// Check $BROWSER first
	if b := os.Getenv("BROWSER"); b != "" {
		return b, nil, nil
	}

	switch o.goos {
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	}

	// Try common launchers
	for _, launcher := range []string{"xdg-open", "wslview", "sensible-browser"} {
		if path, err := o.lookPath(launcher); err == nil {
			return path, nil, nil
		}
	}
	return "", nil, fmt.Errorf("no browser launcher found: set $BROWSER environment variable")
}
