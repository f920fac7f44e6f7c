package commands

import (
	"context"
	"sort"
	"strings"

	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// SearchResult wraps domain.SiteMatch with a relevance score
type SearchResult struct {
	domain.SiteMatch
	Score int
}

// SearchCommand searches the sites of the active document with fuzzy matching
type SearchCommand struct {
	ws    *workspace.Workspace
	Query string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(ws *workspace.Workspace, query string) *SearchCommand {
	return &SearchCommand{
		ws:    ws,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	query := strings.TrimSpace(c.Query)
	if len(query) < 2 {
		return nil, nil
	}

	return FuzzySort(c.ws.Document().Search(""), query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query.
// A substring hit scores 100, plus 50 at the start; otherwise the query
// runes must appear in order and score by adjacency and word starts.
func FuzzyScore(target, query string) int {
	t := []rune(strings.ToLower(target))
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return 0
	}

	if lt, lq := string(t), string(q); strings.Contains(lt, lq) {
		if strings.HasPrefix(lt, lq) {
			return 150
		}
		return 100
	}

	score, qi, prev := 0, 0, -1
	for i := 0; i < len(t) && qi < len(q); i++ {
		if t[i] != q[qi] {
			continue
		}
		switch {
		case i == 0:
			score += 15
		case isSeparator(t[i-1]):
			score += 10
		}
		if prev == i-1 {
			score += 10
		}
		score++
		prev = i
		qi++
	}

	if qi < len(q) {
		return 0
	}
	return score
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '.', '-', '_', '/':
		return true
	}
	return false
}

// siteHost strips the scheme and a leading www. so that "git" ranks
// github.com as a prefix hit
func siteHost(raw string) string {
	s := raw
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	return strings.TrimPrefix(s, "www.")
}

// FuzzySort sorts site matches by relevance to the query
func FuzzySort(matches []domain.SiteMatch, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(matches))

	for _, m := range matches {
		best := max(
			FuzzyScore(m.Site.Title, query),
			FuzzyScore(siteHost(m.Site.URL), query),
			FuzzyScore(m.Site.Description, query),
		)

		if best > 0 {
			scored = append(scored, SearchResult{
				SiteMatch: m,
				Score:     best,
			})
		}
	}

	// stable keeps document order among equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
