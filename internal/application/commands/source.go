package commands

import (
	"context"
	"fmt"
	"strings"

	"navhub/internal/application"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// SourceInfo describes one entry of the source list
type SourceInfo struct {
	Key     string
	Name    string
	Builtin bool
	Active  bool
	Sites   int // only known for custom sources
}

// ListSourcesCommand lists built-in and custom sources
type ListSourcesCommand struct {
	ws *workspace.Workspace
}

// NewListSourcesCommand creates a new ListSourcesCommand
func NewListSourcesCommand(ws *workspace.Workspace) *ListSourcesCommand {
	return &ListSourcesCommand{ws: ws}
}

// Execute returns the merged source list in display order
func (c *ListSourcesCommand) Execute(ctx context.Context) ([]SourceInfo, error) {
	current := c.ws.Current()
	sources := c.ws.Registry().List()
	out := make([]SourceInfo, 0, len(sources))
	for _, s := range sources {
		info := SourceInfo{
			Key:     s.Key(),
			Name:    s.Name,
			Builtin: s.IsBuiltin(),
			Active:  s.Key() == current,
		}
		if s.Data != nil {
			info.Sites = s.Data.SiteCount()
		}
		out = append(out, info)
	}
	return out, nil
}

// SwitchSourceCommand makes a source the active one
type SwitchSourceCommand struct {
	ws         *workspace.Workspace
	SourceID   string
	AllowCache bool
}

// NewSwitchSourceCommand creates a new SwitchSourceCommand
func NewSwitchSourceCommand(ws *workspace.Workspace, sourceID string, allowCache bool) *SwitchSourceCommand {
	return &SwitchSourceCommand{ws: ws, SourceID: sourceID, AllowCache: allowCache}
}

// Validate checks if the switch request is valid
func (c *SwitchSourceCommand) Validate() error {
	return application.ValidateRequired("sourceID", c.SourceID)
}

// Execute runs the switch. An unknown id falls back to the default source;
// the result reports the substitution.
func (c *SwitchSourceCommand) Execute(ctx context.Context) (*workspace.SwitchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.ws.SwitchTo(ctx, strings.TrimSpace(c.SourceID), c.AllowCache)
}

// DeleteSourceResult contains the result of deleting a custom source
type DeleteSourceResult struct {
	Name string
	// Switched is set when the deleted source was active
	Switched *workspace.SwitchResult
	Message  string
}

// DeleteSourceCommand removes a custom source
type DeleteSourceCommand struct {
	ws   *workspace.Workspace
	Name string
}

// NewDeleteSourceCommand creates a new DeleteSourceCommand
func NewDeleteSourceCommand(ws *workspace.Workspace, name string) *DeleteSourceCommand {
	return &DeleteSourceCommand{ws: ws, Name: name}
}

// Validate checks if the source can be deleted
func (c *DeleteSourceCommand) Validate() error {
	if err := application.ValidateRequired("sourceName", c.Name); err != nil {
		return err
	}
	if application.IsBuiltinPath(c.Name) {
		return fmt.Errorf("%s: %w", c.Name, application.ErrReadOnlySource)
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteSourceCommand) Execute(ctx context.Context) (*DeleteSourceResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switched, err := c.ws.DeleteSource(ctx, c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to delete source: %w", err)
	}

	msg := fmt.Sprintf("Deleted source %s", c.Name)
	if switched != nil {
		msg += fmt.Sprintf(", switched to %s", switched.Source.Name)
	}
	return &DeleteSourceResult{Name: c.Name, Switched: switched, Message: msg}, nil
}

// ShowCommand returns the active document
type ShowCommand struct {
	ws *workspace.Workspace
}

// NewShowCommand creates a new ShowCommand
func NewShowCommand(ws *workspace.Workspace) *ShowCommand {
	return &ShowCommand{ws: ws}
}

// Execute returns a copy of the active document
func (c *ShowCommand) Execute(ctx context.Context) (domain.NavDocument, error) {
	return c.ws.Document(), nil
}
