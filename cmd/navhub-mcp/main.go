package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "navhub/internal/adapters/mcp"
	"navhub/internal/bootstrap"
	"navhub/internal/config"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	offline := flag.Bool("offline", false, "do not contact the sync remote")
	ephemeral := flag.Bool("ephemeral", false, "keep state in memory only")
	flag.Parse()

	ctx := context.Background()
	// stdout carries the protocol; logs go to the log file only
	rt, err := bootstrap.Open(ctx, bootstrap.Options{ConfigPath: *configFlag, Ephemeral: *ephemeral})
	if err != nil {
		log.Fatalf("navhub-mcp: %v", err)
	}
	defer rt.Close()

	if !*offline {
		rt.Resume(ctx)
	}

	mcpServer := server.NewMCPServer(
		"navhub-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.Workspace)
	mcpadapter.RegisterWriteTools(mcpServer, rt.Workspace)
	mcpadapter.RegisterSyncTools(mcpServer, rt.Workspace, rt.Sync)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Printf("navhub-mcp: %v", err)
	}
}
