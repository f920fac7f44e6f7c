package commands

import (
	"context"
	"fmt"

	"navhub/internal/application"
	"navhub/internal/application/workspace"
)

// SetThemeCommand stores the theme preference
type SetThemeCommand struct {
	ws    *workspace.Workspace
	Theme string
}

// NewSetThemeCommand creates a new SetThemeCommand
func NewSetThemeCommand(ws *workspace.Workspace, theme string) *SetThemeCommand {
	return &SetThemeCommand{ws: ws, Theme: theme}
}

// Validate checks the theme name
func (c *SetThemeCommand) Validate() error {
	if c.Theme != "light" && c.Theme != "dark" {
		return &application.ValidationError{
			Field:   "theme",
			Message: fmt.Sprintf("expected light or dark, got: %s", c.Theme),
		}
	}
	return nil
}

// Execute stores the theme
func (c *SetThemeCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.ws.SetTheme(c.Theme); err != nil {
		return "", err
	}
	return fmt.Sprintf("Theme set to %s", c.Theme), nil
}

// SetProxyDisplayCommand stores whether proxy-only sites are shown
type SetProxyDisplayCommand struct {
	ws   *workspace.Workspace
	Show bool
}

// NewSetProxyDisplayCommand creates a new SetProxyDisplayCommand
func NewSetProxyDisplayCommand(ws *workspace.Workspace, show bool) *SetProxyDisplayCommand {
	return &SetProxyDisplayCommand{ws: ws, Show: show}
}

// Execute stores the preference
func (c *SetProxyDisplayCommand) Execute(ctx context.Context) (string, error) {
	if err := c.ws.SetProxyDisplay(c.Show); err != nil {
		return "", err
	}
	if c.Show {
		return "Proxy sites shown", nil
	}
	return "Proxy sites hidden", nil
}
