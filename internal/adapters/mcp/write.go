package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"navhub/internal/application/commands"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// RegisterWriteTools adds all dashboard editing tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, ws *workspace.Workspace) {
	s.AddTool(switchSourceTool(), switchSourceHandler(ws))
	s.AddTool(addSiteTool(), addSiteHandler(ws))
	s.AddTool(editSiteTool(), editSiteHandler(ws))
	s.AddTool(moveSiteTool(), moveSiteHandler(ws))
	s.AddTool(deleteSiteTool(), deleteSiteHandler(ws))
	s.AddTool(addCategoryTool(), addCategoryHandler(ws))
	s.AddTool(renameCategoryTool(), renameCategoryHandler(ws))
	s.AddTool(importSourceTool(), importSourceHandler(ws))
	s.AddTool(deleteSourceTool(), deleteSourceHandler(ws))
}

// --- switch_source ---

func switchSourceTool() mcp.Tool {
	return mcp.NewTool("switch_source",
		mcp.WithDescription("Make a source active. Unknown identifiers fall back to the default catalog."),
		mcp.WithString("source",
			mcp.Description("Built-in path (e.g. data/02-tools.json) or custom source name"),
			mcp.Required(),
		),
	)
}

func switchSourceHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("source", "")

		res, err := commands.NewSwitchSourceCommand(ws, id, true).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if res.FallbackFrom != "" {
			return mcp.NewToolResultText("Source " + res.FallbackFrom + " not found, switched to " + res.Source.Name), nil
		}
		return mcp.NewToolResultText("Switched to " + res.Source.Name), nil
	}
}

// --- add_site ---

func addSiteTool() mcp.Tool {
	return mcp.NewTool("add_site",
		mcp.WithDescription("Add a site at the top of a category of the active source."),
		mcp.WithString("category_id",
			mcp.Description("Target category ID. Defaults to the personal category (custom-user-sites)."),
		),
		mcp.WithString("title", mcp.Description("Site title"), mcp.Required()),
		mcp.WithString("url", mcp.Description("http(s) URL"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Short description")),
		mcp.WithString("icon", mcp.Description("Icon URL. Defaults to the site's /favicon.ico.")),
	)
}

func addSiteHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		site := domain.Site{
			Title:       req.GetString("title", ""),
			URL:         req.GetString("url", ""),
			Description: req.GetString("description", ""),
			Icon:        req.GetString("icon", ""),
		}
		categoryID := req.GetString("category_id", domain.PersonalCategoryID)

		res, err := commands.NewAddSiteCommand(ws, categoryID, site).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message + " (" + res.Site.ID + ")"), nil
	}
}

// --- edit_site ---

func editSiteTool() mcp.Tool {
	return mcp.NewTool("edit_site",
		mcp.WithDescription("Edit a site. Omitted fields keep their current value."),
		mcp.WithString("id", mcp.Description("Site ID"), mcp.Required()),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("url", mcp.Description("New URL")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("icon", mcp.Description("New icon URL")),
	)
}

func editSiteHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		current, _, ok := ws.Document().FindSite(id)
		if !ok {
			return toolError(domain.ErrUnknownSite)
		}

		current.Title = req.GetString("title", current.Title)
		current.URL = req.GetString("url", current.URL)
		current.Description = req.GetString("description", current.Description)
		current.Icon = req.GetString("icon", current.Icon)

		res, err := commands.NewEditSiteCommand(ws, current).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- move_site ---

func moveSiteTool() mcp.Tool {
	return mcp.NewTool("move_site",
		mcp.WithDescription("Move a site to a position in a category. Categories left empty are removed, except the personal category."),
		mcp.WithString("id", mcp.Description("Site ID"), mcp.Required()),
		mcp.WithString("category_id", mcp.Description("Destination category ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Position in the destination. Omit or -1 to append.")),
	)
}

func moveSiteHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewMoveSiteCommand(ws,
			req.GetString("id", ""),
			req.GetString("category_id", ""),
			req.GetInt("index", -1),
		)
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- delete_site ---

func deleteSiteTool() mcp.Tool {
	return mcp.NewTool("delete_site",
		mcp.WithDescription("Delete a site from the active source."),
		mcp.WithString("id", mcp.Description("Site ID"), mcp.Required()),
	)
}

func deleteSiteHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewDeleteSiteCommand(ws, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- add_category ---

func addCategoryTool() mcp.Tool {
	return mcp.NewTool("add_category",
		mcp.WithDescription("Add an empty category to the active source. It is dropped on save until it holds a site."),
		mcp.WithString("name", mcp.Description("Category name"), mcp.Required()),
	)
}

func addCategoryHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewAddCategoryCommand(ws, req.GetString("name", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- rename_category ---

func renameCategoryTool() mcp.Tool {
	return mcp.NewTool("rename_category",
		mcp.WithDescription("Rename a category. Its ID does not change."),
		mcp.WithString("id", mcp.Description("Category ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
	)
}

func renameCategoryHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewRenameCategoryCommand(ws, req.GetString("id", ""), req.GetString("name", ""))
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- import_source ---

func importSourceTool() mcp.Tool {
	return mcp.NewTool("import_source",
		mcp.WithDescription("Import NavDocument JSON, a JSON bookmark tree or a Netscape bookmark HTML export as a new custom source, then switch to it."),
		mcp.WithString("name", mcp.Description("Unique name for the new source"), mcp.Required()),
		mcp.WithString("content", mcp.Description("File content"), mcp.Required()),
	)
}

func importSourceHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewImportCommand(ws, req.GetString("name", ""), []byte(req.GetString("content", "")))
		res, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(res.Message), nil
	}
}

// --- delete_source ---

func deleteSourceTool() mcp.Tool {
	return mcp.NewTool("delete_source",
		mcp.WithDescription("Delete a custom source. Deleting the active source switches back to the default catalog."),
		mcp.WithString("name", mcp.Description("Custom source name"), mcp.Required()),
	)
}

func deleteSourceHandler(ws *workspace.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := commands.NewDeleteSourceCommand(ws, req.GetString("name", "")).Execute(ctx)
		return message(resultMessage(res), err)
	}
}

func resultMessage(res *commands.DeleteSourceResult) string {
	if res == nil {
		return ""
	}
	return res.Message
}
