package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// RegisterReadTools adds all read-only dashboard tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, ws *workspace.Workspace) {
	s.AddTool(listSourcesTool(), listSourcesHandler(ws))
	s.AddTool(showTool(), showHandler(ws))
	s.AddTool(searchTool(), searchHandler(ws))
	s.AddTool(exportTool(), exportHandler(ws))
}

// --- list_sources ---

func listSourcesTool() mcp.Tool {
	return mcp.NewTool("list_sources",
		mcp.WithDescription("List the data sources: built-in catalogs (identified by path) followed by custom sources (identified by name). The active source is marked with *."),
	)
}

func listSourcesHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sources, err := commands.NewListSourcesCommand(ws).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(sources, formatSource)
	}
}

// --- show ---

func showTool() mcp.Tool {
	return mcp.NewTool("show",
		mcp.WithDescription("Show the active source's categories and sites."),
		mcp.WithString("category_id",
			mcp.Description("Only show this category (e.g. custom-user-sites). Omit to show everything."),
		),
	)
}

func showHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categoryID := req.GetString("category_id", "")

		doc, err := commands.NewShowCommand(ws).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "source: %s\n", ws.Current())
		found := categoryID == ""
		for _, c := range doc.Categories {
			if categoryID != "" && c.ID != categoryID {
				continue
			}
			found = true
			renderCategory(&sb, c)
		}
		if !found {
			return toolError(fmt.Errorf("unknown category: %s", categoryID))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func renderCategory(sb *strings.Builder, c domain.Category) {
	fmt.Fprintf(sb, "%s  %s (%d)\n", c.ID, c.Name, len(c.Sites))
	for _, s := range c.Sites {
		fmt.Fprintf(sb, "  %s  %s  %s\n", s.ID, s.Title, s.URL)
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Fuzzy search the active source by site title, URL and description."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
	)
}

func searchHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")

		results, err := commands.NewSearchCommand(ws, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  %s  [%s]\n", r.Site.ID, r.Site.Title, r.Site.URL, r.CategoryName)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Export the active source as NavDocument JSON. Empty categories are dropped and missing ids are filled in."),
	)
}

func exportHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewExportCommand(ws).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(res.Data)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func message(msg string, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(msg), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSource(s commands.SourceInfo) string {
	marker := " "
	if s.Active {
		marker = "*"
	}
	if s.Builtin {
		return fmt.Sprintf("%s %s  %s  (built-in)", marker, s.Key, s.Name)
	}
	return fmt.Sprintf("%s %s  (custom, %d sites)", marker, s.Name, s.Sites)
}
