package domain

import (
	"net/url"
	"strings"
)

// QueryPlaceholder marks where an engine URL takes the search query
const QueryPlaceholder = "%s"

// SearchEngine is one web search engine, e.g. {"Google", "https://www.google.com/search?q=%s"}
type SearchEngine struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	RequiresProxy bool   `json:"proxy,omitempty"`
}

// QueryURL returns the engine URL with every placeholder replaced by the
// escaped query. Spaces are encoded as %20.
func (e SearchEngine) QueryURL(query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return strings.ReplaceAll(e.URL, QueryPlaceholder, escaped)
}

// Homepage returns the scheme and host of the engine URL, or "" when it has none
func (e SearchEngine) Homepage() string {
	u, err := url.Parse(strings.ReplaceAll(e.URL, QueryPlaceholder, ""))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// EngineGroup is a tab of the web search bar
type EngineGroup struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EngineCatalog lists engine groups in display order and the engines of each group
type EngineCatalog struct {
	Categories []EngineGroup              `json:"categories"`
	Engines    map[string][]SearchEngine `json:"engines"`
}

// Empty reports whether the catalog offers no engine at all
func (c EngineCatalog) Empty() bool {
	for _, g := range c.Categories {
		if len(c.Engines[g.Value]) > 0 {
			return false
		}
	}
	return true
}

// Group returns the group with the given value. An empty value selects the first group.
func (c EngineCatalog) Group(value string) (EngineGroup, bool) {
	if value == "" && len(c.Categories) > 0 {
		return c.Categories[0], true
	}
	for _, g := range c.Categories {
		if g.Value == value {
			return g, true
		}
	}
	return EngineGroup{}, false
}

// GroupEngines returns a copy of the engines of a group
func (c EngineCatalog) GroupEngines(value string) []SearchEngine {
	return append([]SearchEngine(nil), c.Engines[value]...)
}

// NextGroup returns the group after value, wrapping around
func (c EngineCatalog) NextGroup(value string) EngineGroup {
	if len(c.Categories) == 0 {
		return EngineGroup{}
	}
	for i, g := range c.Categories {
		if g.Value == value {
			return c.Categories[(i+1)%len(c.Categories)]
		}
	}
	return c.Categories[0]
}
