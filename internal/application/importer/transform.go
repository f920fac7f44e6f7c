package importer

import (
	"strings"

	"navhub/internal/domain"
)

// MaxURLLength is the longest link target kept on import. Longer targets
// are data URIs or similar and are dropped.
const MaxURLLength = 2000

// BookmarksBarID and BookmarksBarName name the category synthesized for
// top-level links when the tree has no folders
const (
	BookmarksBarID   = "bookmarks-bar"
	BookmarksBarName = "Bookmarks Bar"
)

const (
	untitledSite   = "Untitled"
	untitledFolder = "Untitled folder"
)

var placeholderURLs = map[string]bool{
	"about:blank":      true,
	"about:newtab":     true,
	"about:home":       true,
	"chrome://newtab/": true,
	"edge://newtab/":   true,
}

// folder is a nested category built from a bookmark folder
type folder struct {
	id       string
	name     string
	sites    []domain.Site
	children []*folder
}

// Transform converts a bookmark tree into a flat NavDocument.
//
// Links at the top of the tree are prepended to the first folder, or
// collected in a synthesized category when there are no folders. Every
// folder with at least one direct link becomes one category, in pre-order;
// folders that only nest other folders contribute no category themselves.
func Transform(root domain.BookmarkNode) domain.NavDocument {
	var topSites []domain.Site
	var folders []*folder

	if root.IsLink() {
		if s, ok := toSite(root); ok {
			topSites = append(topSites, s)
		}
	}
	for _, child := range root.Children {
		if child.IsLink() {
			if s, ok := toSite(child); ok {
				topSites = append(topSites, s)
			}
			continue
		}
		folders = append(folders, buildFolder(child))
	}

	if len(topSites) > 0 {
		if len(folders) > 0 {
			folders[0].sites = append(topSites, folders[0].sites...)
		} else {
			folders = []*folder{{id: BookmarksBarID, name: BookmarksBarName, sites: topSites}}
		}
	}

	taken := map[string]bool{domain.PersonalCategoryID: true}
	doc := domain.NavDocument{Categories: []domain.Category{}}
	for _, f := range folders {
		flatten(f, taken, &doc)
	}
	return doc
}

func buildFolder(n domain.BookmarkNode) *folder {
	f := &folder{id: strings.TrimSpace(n.ID), name: strings.TrimSpace(n.Title)}
	if f.name == "" {
		f.name = untitledFolder
	}
	for _, child := range n.Children {
		if child.IsLink() {
			if s, ok := toSite(child); ok {
				f.sites = append(f.sites, s)
			}
			continue
		}
		f.children = append(f.children, buildFolder(child))
	}
	return f
}

func flatten(f *folder, taken map[string]bool, doc *domain.NavDocument) {
	if len(f.sites) > 0 {
		id := f.id
		if id == "" || taken[id] {
			id = domain.CategoryIDFromName(f.name, func(c string) bool { return taken[c] })
		}
		taken[id] = true
		doc.Categories = append(doc.Categories, domain.Category{ID: id, Name: f.name, Sites: f.sites})
	}
	for _, child := range f.children {
		flatten(child, taken, doc)
	}
}

func toSite(n domain.BookmarkNode) (domain.Site, bool) {
	target := strings.TrimSpace(n.URL)
	if !validLink(target) {
		return domain.Site{}, false
	}
	title := strings.TrimSpace(n.Title)
	if title == "" {
		title = untitledSite
	}
	icon := n.Icon
	if len(icon) > MaxURLLength {
		icon = ""
	}
	return domain.Site{
		ID:    domain.NewSiteID(),
		Title: title,
		URL:   target,
		Icon:  icon,
	}, true
}

func validLink(target string) bool {
	if target == "" || len(target) > MaxURLLength {
		return false
	}
	lower := strings.ToLower(target)
	if placeholderURLs[lower] || strings.HasPrefix(lower, "place:") {
		return false
	}
	return true
}
