package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"navhub/internal/adapters/browser"
	"navhub/internal/adapters/tui"
	"navhub/internal/adapters/tui/views"
	"navhub/internal/bootstrap"
	"navhub/internal/config"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	verbose := flag.Int("v", 0, "log verbosity (1=info, 2=debug, 3=trace)")
	flag.Parse()

	if err := run(*configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, verbosity int) error {
	ctx := context.Background()

	// logs go to the file only; stderr belongs to the TUI
	rt, err := bootstrap.Open(ctx, bootstrap.Options{ConfigPath: configPath, Verbosity: verbosity})
	if err != nil {
		return err
	}
	defer rt.Close()

	rt.Resume(ctx)

	app := tui.NewApp(tui.Deps{
		Workspace: rt.Workspace,
		Sync:      rt.Sync,
		Opener:    browser.NewOpener(),
		Engines:   rt.Engines,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())

	watcher, err := rt.Watch(func(string) {
		p.Send(views.DocumentChangedMsg{})
	})
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}
