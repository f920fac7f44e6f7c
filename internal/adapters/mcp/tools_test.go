package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"navhub/internal/adapters/filesystem"
	"navhub/internal/adapters/memory"
	"navhub/internal/application/registry"
	"navhub/internal/application/storage"
	"navhub/internal/application/workspace"
	"navhub/internal/assets"
	"navhub/internal/domain"
)

func setupWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	store := storage.New(memory.NewStore())
	fetcher := filesystem.NewFetcher(assets.Catalogs(), "embedded")
	ws := workspace.New(registry.New(domain.BuiltinSources, store), store, fetcher)
	if _, err := ws.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return ws
}

func call(t *testing.T, h server.ToolHandlerFunc, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Request: mcp.Request{Method: "tools/call"},
		Params:  mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("%s returned no content", name)
	}
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestListSources_MarksActive(t *testing.T) {
	ws := setupWorkspace(t)

	out := text(t, call(t, listSourcesHandler(ws), "list_sources", nil))
	if !strings.Contains(out, "* "+domain.DefaultSourcePath) {
		t.Errorf("expected default source marked active, got:\n%s", out)
	}
	if strings.Count(out, "\n") != len(domain.BuiltinSources) {
		t.Errorf("expected %d lines, got:\n%s", len(domain.BuiltinSources), out)
	}
}

func TestAddSiteThenSearch(t *testing.T) {
	ws := setupWorkspace(t)

	res := call(t, addSiteHandler(ws), "add_site", map[string]any{
		"title": "Go Documentation",
		"url":   "https://go.dev/doc",
	})
	if res.IsError {
		t.Fatalf("add_site failed: %s", text(t, res))
	}

	out := text(t, call(t, searchHandler(ws), "search", map[string]any{"query": "go doc"}))
	if !strings.Contains(out, "https://go.dev/doc") {
		t.Errorf("expected added site in search results, got:\n%s", out)
	}

	shown := text(t, call(t, showHandler(ws), "show", map[string]any{"category_id": domain.PersonalCategoryID}))
	if !strings.Contains(shown, "Go Documentation") {
		t.Errorf("expected site in personal category, got:\n%s", shown)
	}
}

func TestAddSite_ValidationIsToolError(t *testing.T) {
	ws := setupWorkspace(t)

	res := call(t, addSiteHandler(ws), "add_site", map[string]any{
		"title": "Bad",
		"url":   "not a url",
	})
	if !res.IsError {
		t.Fatal("expected error result for invalid URL")
	}
}

func TestEditSite_KeepsOmittedFields(t *testing.T) {
	ws := setupWorkspace(t)
	call(t, addSiteHandler(ws), "add_site", map[string]any{
		"title":       "Docs",
		"url":         "https://docs.example",
		"description": "reference",
	})
	added := ws.Document().Categories[0].Sites[0]

	res := call(t, editSiteHandler(ws), "edit_site", map[string]any{"id": added.ID, "title": "Manual"})
	if res.IsError {
		t.Fatalf("edit_site failed: %s", text(t, res))
	}

	got, _, _ := ws.Document().FindSite(added.ID)
	if got.Title != "Manual" || got.URL != "https://docs.example" || got.Description != "reference" {
		t.Errorf("unexpected site after edit: %+v", got)
	}
}

func TestImportAndDeleteSource(t *testing.T) {
	ws := setupWorkspace(t)

	res := call(t, importSourceHandler(ws), "import_source", map[string]any{
		"name":    "Mine",
		"content": `{"categories":[{"categoryId":"a","categoryName":"A","sites":[{"id":"1","title":"One","url":"https://one.example"}]}]}`,
	})
	if res.IsError {
		t.Fatalf("import_source failed: %s", text(t, res))
	}
	if ws.Current() != "Mine" {
		t.Errorf("expected Mine active, got %s", ws.Current())
	}

	res = call(t, deleteSourceHandler(ws), "delete_source", map[string]any{"name": "Mine"})
	if res.IsError {
		t.Fatalf("delete_source failed: %s", text(t, res))
	}
	if ws.Current() != domain.DefaultSourcePath {
		t.Errorf("expected default source after delete, got %s", ws.Current())
	}
}

func TestSwitchSource_ReportsFallback(t *testing.T) {
	ws := setupWorkspace(t)

	out := text(t, call(t, switchSourceHandler(ws), "switch_source", map[string]any{"source": "ghost.json"}))
	if !strings.Contains(out, "ghost.json not found") {
		t.Errorf("expected fallback message, got %s", out)
	}
}

func TestRegisterTools(t *testing.T) {
	ws := setupWorkspace(t)
	s := server.NewMCPServer("navhub", "test")
	RegisterReadTools(s, ws)
	RegisterWriteTools(s, ws)
}
