package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"navhub/internal/application/commands"
	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
)

// RegisterSyncTools adds the remote sync tools to the MCP server.
func RegisterSyncTools(s *server.MCPServer, ws *workspace.Workspace, sync *syncer.Orchestrator) {
	s.AddTool(mcp.NewTool("sync_status",
		mcp.WithDescription("Report the remote sync status."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewStatusCommand(sync).Execute(ctx)
		return message(syncMessage(res), err)
	})

	s.AddTool(mcp.NewTool("sync_pull",
		mcp.WithDescription("Pull the remote payload and apply it locally. Run this after a push conflict."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewPullCommand(ws, sync).Execute(ctx)
		return message(syncMessage(res), err)
	})

	s.AddTool(mcp.NewTool("sync_push",
		mcp.WithDescription("Push local personal links, custom sources and preferences to the remote now."),
	), func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewPushCommand(sync).Execute(ctx)
		return message(syncMessage(res), err)
	})
}

func syncMessage(res *commands.SyncResult) string {
	if res == nil {
		return ""
	}
	return res.Message
}
