package domain

import "testing"

func TestSearchEngine_QueryURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		query string
		want  string
	}{
		{name: "simple", url: "https://s.example/?q=%s", query: "golang", want: "https://s.example/?q=golang"},
		{name: "space as %20", url: "https://s.example/?q=%s", query: "go modules", want: "https://s.example/?q=go%20modules"},
		{name: "reserved characters", url: "https://s.example/?q=%s", query: "a&b=c/d+e", want: "https://s.example/?q=a%26b%3Dc%2Fd%2Be"},
		{name: "every placeholder", url: "https://s.example/%s?q=%s", query: "x", want: "https://s.example/x?q=x"},
		{name: "non-ascii", url: "https://s.example/?q=%s", query: "影音", want: "https://s.example/?q=%E5%BD%B1%E9%9F%B3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchEngine{URL: tt.url}.QueryURL(tt.query)
			if got != tt.want {
				t.Errorf("QueryURL(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchEngine_Homepage(t *testing.T) {
	e := SearchEngine{URL: "https://www.bing.com/search?q=%s"}
	if got := e.Homepage(); got != "https://www.bing.com" {
		t.Errorf("Homepage() = %q", got)
	}
	if got := (SearchEngine{URL: "not a url %s"}).Homepage(); got != "" {
		t.Errorf("expected empty homepage, got %q", got)
	}
}

func TestEngineCatalog_Groups(t *testing.T) {
	c := EngineCatalog{
		Categories: []EngineGroup{{Label: "Web", Value: "web"}, {Label: "Code", Value: "code"}},
		Engines: map[string][]SearchEngine{
			"web": {{Name: "A", URL: "https://a.example/?q=%s"}},
		},
	}

	if g, ok := c.Group(""); !ok || g.Value != "web" {
		t.Errorf("expected first group for empty value, got %+v", g)
	}
	if _, ok := c.Group("missing"); ok {
		t.Error("expected unknown group to be reported")
	}
	if next := c.NextGroup("code"); next.Value != "web" {
		t.Errorf("expected wrap to web, got %s", next.Value)
	}
	if c.Empty() {
		t.Error("catalog with one engine reported empty")
	}
	if !(EngineCatalog{}).Empty() {
		t.Error("zero catalog should be empty")
	}

	engines := c.GroupEngines("web")
	engines[0].Name = "changed"
	if c.Engines["web"][0].Name != "A" {
		t.Error("GroupEngines returned an aliasing slice")
	}
}
