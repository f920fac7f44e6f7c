package commands

import (
	"context"
	"errors"
	"fmt"

	"navhub/internal/application"
	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// SyncResult contains the result of a sync action
type SyncResult struct {
	State   domain.SyncState
	Pull    *syncer.PullResult
	Message string
}

// refreshAfterPull re-resolves the active source so pulled personal or
// custom data shows up in the active document
func refreshAfterPull(ctx context.Context, ws *workspace.Workspace, res *syncer.PullResult) error {
	if res == nil || !res.Found || len(res.Applied) == 0 {
		return nil
	}
	if _, err := ws.Refresh(ctx, true); err != nil {
		return fmt.Errorf("failed to reload after pull: %w", err)
	}
	return nil
}

// BindCommand connects the remote store with an access token
type BindCommand struct {
	ws         *workspace.Workspace
	sync       *syncer.Orchestrator
	Credential string
}

// NewBindCommand creates a new BindCommand
func NewBindCommand(ws *workspace.Workspace, sync *syncer.Orchestrator, credential string) *BindCommand {
	return &BindCommand{ws: ws, sync: sync, Credential: credential}
}

// Validate checks if the bind request is valid
func (c *BindCommand) Validate() error {
	return application.ValidateRequired("credential", c.Credential)
}

// Execute verifies the token, prepares the repository and pulls
func (c *BindCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	identity, pulled, err := c.sync.Bind(ctx, c.Credential)
	if err != nil {
		return nil, err
	}
	if err := refreshAfterPull(ctx, c.ws, pulled); err != nil {
		return nil, err
	}

	state := c.sync.State()
	return &SyncResult{
		State:   state,
		Pull:    pulled,
		Message: fmt.Sprintf("Connected as %s (%s)", identity.Login, state.Repository),
	}, nil
}

// PullCommand applies the remote payload locally
type PullCommand struct {
	ws   *workspace.Workspace
	sync *syncer.Orchestrator
}

// NewPullCommand creates a new PullCommand
func NewPullCommand(ws *workspace.Workspace, sync *syncer.Orchestrator) *PullCommand {
	return &PullCommand{ws: ws, sync: sync}
}

// Execute runs the pull
func (c *PullCommand) Execute(ctx context.Context) (*SyncResult, error) {
	res, err := c.sync.Pull(ctx)
	if err != nil {
		return nil, err
	}
	if err := refreshAfterPull(ctx, c.ws, res); err != nil {
		return nil, err
	}

	msg := "No remote data yet"
	if res.Found {
		msg = fmt.Sprintf("Pulled %d fields", len(res.Applied))
	}
	return &SyncResult{State: c.sync.State(), Pull: res, Message: msg}, nil
}

// PushCommand writes local state to the remote now
type PushCommand struct {
	sync *syncer.Orchestrator
}

// NewPushCommand creates a new PushCommand
func NewPushCommand(sync *syncer.Orchestrator) *PushCommand {
	return &PushCommand{sync: sync}
}

// Execute runs the push
func (c *PushCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.sync.Push(ctx); err != nil {
		if errors.Is(err, application.ErrConflict) {
			return nil, fmt.Errorf("%w: pull first, then push again", err)
		}
		return nil, err
	}
	return &SyncResult{State: c.sync.State(), Message: "Pushed"}, nil
}

// LogoutCommand forgets the stored access token
type LogoutCommand struct {
	sync *syncer.Orchestrator
}

// NewLogoutCommand creates a new LogoutCommand
func NewLogoutCommand(sync *syncer.Orchestrator) *LogoutCommand {
	return &LogoutCommand{sync: sync}
}

// Execute runs the logout
func (c *LogoutCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.sync.Logout(); err != nil {
		return nil, err
	}
	return &SyncResult{State: c.sync.State(), Message: "Disconnected"}, nil
}

// StatusCommand reports the sync state
type StatusCommand struct {
	sync *syncer.Orchestrator
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(sync *syncer.Orchestrator) *StatusCommand {
	return &StatusCommand{sync: sync}
}

// Execute returns a snapshot of the sync state
func (c *StatusCommand) Execute(ctx context.Context) (*SyncResult, error) {
	state := c.sync.State()
	msg := state.Status.String()
	if state.Connected() {
		msg = fmt.Sprintf("%s (%s as %s)", msg, state.Repository, state.Identity)
	}
	if state.LastError != "" {
		msg += ": " + state.LastError
	}
	return &SyncResult{State: state, Message: msg}, nil
}
