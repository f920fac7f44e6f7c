package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"navhub/internal/application"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// WebSearchCommand sends a query to one or more web search engines of a group
type WebSearchCommand struct {
	catalog domain.EngineCatalog
	opener  ports.URLOpener
	Query   string
	// Group is the engine group value; empty selects the first group
	Group string
	// Engines are engine names in the group; empty selects the first engine
	Engines []string
}

// WebSearchResult lists the URLs built for a query
type WebSearchResult struct {
	Group domain.EngineGroup
	URLs  []string
}

// NewWebSearchCommand creates a new WebSearchCommand. With a nil opener the
// command only builds the URLs.
func NewWebSearchCommand(catalog domain.EngineCatalog, opener ports.URLOpener, query, group string, engines ...string) *WebSearchCommand {
	return &WebSearchCommand{
		catalog: catalog,
		opener:  opener,
		Query:   strings.TrimSpace(query),
		Group:   group,
		Engines: engines,
	}
}

// Validate checks that the group exists and at least one engine is selected
func (c *WebSearchCommand) Validate() error {
	_, _, err := c.resolve()
	return err
}

func (c *WebSearchCommand) resolve() (domain.EngineGroup, []domain.SearchEngine, error) {
	group, ok := c.catalog.Group(c.Group)
	if !ok {
		return domain.EngineGroup{}, nil, &application.ValidationError{
			Field:   "group",
			Message: fmt.Sprintf("unknown engine group: %s", c.Group),
		}
	}

	available := c.catalog.GroupEngines(group.Value)
	if len(c.Engines) == 0 {
		if len(available) == 0 {
			return group, nil, &application.ValidationError{Field: "engines", Message: "select at least one engine"}
		}
		return group, available[:1], nil
	}

	selected := make([]domain.SearchEngine, 0, len(c.Engines))
	for _, name := range c.Engines {
		found := false
		for _, e := range available {
			if strings.EqualFold(e.Name, name) {
				selected = append(selected, e)
				found = true
				break
			}
		}
		if !found {
			return group, nil, &application.ValidationError{
				Field:   "engines",
				Message: fmt.Sprintf("no engine %q in group %s", name, group.Value),
			}
		}
	}
	return group, selected, nil
}

// Execute builds one URL per selected engine and opens each. An empty query
// opens the homepage of the first selected engine only.
func (c *WebSearchCommand) Execute(ctx context.Context) (*WebSearchResult, error) {
	group, engines, err := c.resolve()
	if err != nil {
		return nil, err
	}

	res := &WebSearchResult{Group: group}
	if c.Query == "" {
		home := engines[0].Homepage()
		if home == "" {
			return nil, &application.ValidationError{Field: "query", Message: "query is required"}
		}
		res.URLs = []string{home}
	} else {
		for _, e := range engines {
			res.URLs = append(res.URLs, e.QueryURL(c.Query))
		}
	}

	if c.opener == nil {
		return res, nil
	}
	var errs []error
	for _, u := range res.URLs {
		if err := c.opener.Open(u); err != nil {
			errs = append(errs, err)
		}
	}
	return res, errors.Join(errs...)
}
