package ports

import "os/exec"

// URLOpener defines the interface for opening a site in the user's browser
type URLOpener interface {
	// Open opens the URL with the platform opener ($BROWSER, xdg-open, open, start)
	Open(url string) error

	// Command returns an exec.Cmd for opening the URL
	// This is useful for integrating with bubbletea's ExecProcess
	Command(url string) (*exec.Cmd, error)
}
