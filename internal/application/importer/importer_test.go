package importer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navhub/internal/application"
	"navhub/internal/domain"
)

const netscapeSample = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Bookmarks bar</H3>
    <DL><p>
        <DT><A HREF="https://go.dev/" ICON="data:image/png;base64,AAA">Go</A>
        <DT><H3>Docs</H3>
        <DL><p>
            <DT><A HREF="https://pkg.go.dev/">Packages</A>
            <DT><A HREF="about:blank">Blank</A>
        </DL><p>
        <DT><H3>Only folders</H3>
        <DL><p>
            <DT><H3>Deep</H3>
            <DL><p>
                <DT><A HREF="https://deep.example/">深い</A>
            </DL><p>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://top.example/">Top level</A>
</DL><p>
`

func titles(c domain.Category) []string {
	out := make([]string, len(c.Sites))
	for i, s := range c.Sites {
		out[i] = s.Title
	}
	return out
}

func TestDetect_NavDocument(t *testing.T) {
	parsed, err := Detect([]byte(`{"categories":[{"categoryId":"a","categoryName":"A","sites":[{"id":"1","title":"One","url":"https://one.example","proxy":false}]}]}`))
	require.NoError(t, err)

	assert.Equal(t, KindDocument, parsed.Kind)
	require.NotNil(t, parsed.Document)
	assert.Nil(t, parsed.Tree)
	assert.Equal(t, "a", parsed.Document.Categories[0].ID)
}

func TestDetect_JSONTrees(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLinks int
	}{
		{
			name:      "chromium roots",
			input:     `{"roots":{"bookmark_bar":{"name":"Bar","children":[{"name":"Go","url":"https://go.dev"}]},"other":{"name":"Other","children":[]}}}`,
			wantLinks: 1,
		},
		{
			name:      "firefox backup",
			input:     `{"title":"","children":[{"title":"Menu","children":[{"title":"Go","uri":"https://go.dev"},{"title":"Rust","uri":"https://rust-lang.org"}]}]}`,
			wantLinks: 2,
		},
		{
			name:      "array of nodes",
			input:     `[{"title":"A","href":"https://a.example"},{"title":"F","children":[{"title":"B","url":"https://b.example"}]}]`,
			wantLinks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Detect([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, KindBookmarks, parsed.Kind)
			require.NotNil(t, parsed.Tree)
			assert.Equal(t, tt.wantLinks, parsed.Tree.CountLinks())
		})
	}
}

func TestDetect_Rejects(t *testing.T) {
	inputs := map[string]string{
		"empty":              "   ",
		"plain text":         "hello",
		"broken json":        `{"categories": [`,
		"categories object":  `{"categories": {}}`,
		"unrelated object":   `{"foo": 1}`,
		"html without lists": `<html><body><p>hi</p></body></html>`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Detect([]byte(input))
			require.Error(t, err)
			var parseErr *application.ParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, application.ErrDecode)
		})
	}
}

func TestParseBookmarkHTML(t *testing.T) {
	tree, err := ParseBookmarkHTML(strings.NewReader(netscapeSample))
	require.NoError(t, err)

	require.Len(t, tree.Children, 2)
	bar := tree.Children[0]
	assert.Equal(t, "Bookmarks bar", bar.Title)
	assert.False(t, bar.IsLink())
	require.Len(t, bar.Children, 3)
	assert.Equal(t, "https://go.dev/", bar.Children[0].URL)
	assert.Equal(t, "data:image/png;base64,AAA", bar.Children[0].Icon)
	assert.Equal(t, "Docs", bar.Children[1].Title)
	assert.Len(t, bar.Children[1].Children, 2)

	assert.True(t, tree.Children[1].IsLink())
	assert.Equal(t, 5, tree.CountLinks())
}

func TestTransform_NetscapeFile(t *testing.T) {
	parsed, err := Detect([]byte(netscapeSample))
	require.NoError(t, err)
	require.Equal(t, KindBookmarks, parsed.Kind)

	doc := parsed.ToDocument()

	require.Len(t, doc.Categories, 3)
	// top-level link is prepended into the first folder
	assert.Equal(t, "bookmarks-bar", doc.Categories[0].ID)
	assert.Equal(t, []string{"Top level", "Go"}, titles(doc.Categories[0]))
	// placeholder target dropped
	assert.Equal(t, "docs", doc.Categories[1].ID)
	assert.Equal(t, []string{"Packages"}, titles(doc.Categories[1]))
	// "Only folders" has no direct links and yields no category
	assert.Equal(t, "deep", doc.Categories[2].ID)
	assert.Equal(t, []string{"深い"}, titles(doc.Categories[2]))
}

func TestTransform_DropsOverlongLinksKeepingOrder(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 5000)
	tree := domain.BookmarkNode{Children: []domain.BookmarkNode{
		{Title: "Folder", Children: []domain.BookmarkNode{
			{Title: "first", URL: "https://first.example"},
			{Title: "huge", URL: long},
			{Title: "second", URL: "https://second.example"},
		}},
	}}

	doc := Transform(tree)

	require.Len(t, doc.Categories, 1)
	assert.Equal(t, []string{"first", "second"}, titles(doc.Categories[0]))
}

func TestTransform_TopLevelLinksWithoutFolders(t *testing.T) {
	tree := domain.BookmarkNode{Children: []domain.BookmarkNode{
		{Title: "a", URL: "https://a.example"},
		{Title: "", URL: "https://b.example"},
		{Title: "new tab", URL: "chrome://newtab/"},
	}}

	doc := Transform(tree)

	require.Len(t, doc.Categories, 1)
	assert.Equal(t, BookmarksBarID, doc.Categories[0].ID)
	assert.Equal(t, BookmarksBarName, doc.Categories[0].Name)
	assert.Equal(t, []string{"a", "Untitled"}, titles(doc.Categories[0]))
}

func TestTransform_UniqueCategoryIDs(t *testing.T) {
	link := domain.BookmarkNode{Title: "x", URL: "https://x.example"}
	tree := domain.BookmarkNode{Children: []domain.BookmarkNode{
		{Title: "Reading", Children: []domain.BookmarkNode{link}},
		{Title: "reading", Children: []domain.BookmarkNode{link}},
		{Title: "日本", Children: []domain.BookmarkNode{link}},
		{Title: "中文", Children: []domain.BookmarkNode{link}},
		{Title: "Mine", ID: domain.PersonalCategoryID, Children: []domain.BookmarkNode{link}},
	}}

	doc := Transform(tree)

	ids := make([]string, len(doc.Categories))
	for i, c := range doc.Categories {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"reading", "reading-2", "category", "category-2", "mine"}, ids)

	siteIDs := map[string]bool{}
	for _, c := range doc.Categories {
		for _, s := range c.Sites {
			assert.False(t, siteIDs[s.ID], "duplicate site id %s", s.ID)
			siteIDs[s.ID] = true
		}
	}
}

func TestExport_RoundTrip(t *testing.T) {
	original := domain.NavDocument{Categories: []domain.Category{
		{ID: domain.PersonalCategoryID, Name: "My Links", Sites: []domain.Site{}},
		{ID: "video", Name: "Video", Sites: []domain.Site{
			{ID: "s1", Title: "One", URL: "https://one.example", Description: "first"},
			{ID: "s2", Title: "Two", URL: "https://two.example", RequiresProxy: true},
		}},
		{ID: "empty", Name: "Empty", Sites: []domain.Site{}},
	}}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := Detect(data)
	require.NoError(t, err)
	out, err := ExportJSON(parsed.ToDocument())
	require.NoError(t, err)

	var exported domain.NavDocument
	require.NoError(t, json.Unmarshal(out, &exported))

	require.Len(t, exported.Categories, 2)
	assert.Equal(t, domain.PersonalCategoryID, exported.Categories[0].ID)
	assert.Equal(t, original.Categories[1], exported.Categories[1])
	assert.Contains(t, string(out), `"sites": []`)
}

func TestExport_BackfillsMissingIDs(t *testing.T) {
	doc := domain.NavDocument{Categories: []domain.Category{
		{Name: "No Id", Sites: []domain.Site{{Title: "x", URL: "https://x.example"}}},
	}}

	out := Export(doc)

	assert.Equal(t, "no-id", out.Categories[0].ID)
	assert.NotEmpty(t, out.Categories[0].Sites[0].ID)
	assert.Empty(t, doc.Categories[0].ID, "input must not be modified")
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "NavHub-Export-Media & Entertainment-2024-03-09.json", ExportFilename("Media & Entertainment", now))
	assert.Equal(t, "NavHub-Export-a-b-2024-03-09.json", ExportFilename("a/b", now))
}
