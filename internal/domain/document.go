package domain

import (
	"fmt"
	"slices"
	"strings"
)

// PersonalCategoryID is the fixed id of the protected "My Links" category
const PersonalCategoryID = "custom-user-sites"

// PersonalCategoryName is the display name given to a fresh personal category
const PersonalCategoryName = "My Links"

// Site represents a single link card
type Site struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Icon          string `json:"icon,omitempty"`
	Description   string `json:"desc,omitempty"`
	RequiresProxy bool   `json:"proxy"`
}

// Category represents a named, ordered group of sites
type Category struct {
	ID    string `json:"categoryId"`
	Name  string `json:"categoryName"`
	Sites []Site `json:"sites"`
}

// IsPersonal reports whether this is the protected personal category
func (c Category) IsPersonal() bool {
	return c.ID == PersonalCategoryID
}

// Clone returns a copy that shares no backing arrays with c
func (c Category) Clone() Category {
	sites := make([]Site, len(c.Sites))
	copy(sites, c.Sites)
	return Category{ID: c.ID, Name: c.Name, Sites: sites}
}

// NewPersonalCategory returns an empty, well-formed personal category
func NewPersonalCategory() Category {
	return Category{
		ID:    PersonalCategoryID,
		Name:  PersonalCategoryName,
		Sites: []Site{},
	}
}

// NavDocument is the root payload persisted per source and exchanged with the remote store.
//
// NavDocument has value semantics: the methods that return a NavDocument
// never alias the receiver's slices, and the mutating methods (pointer
// receivers) keep exactly one personal category in the document.
type NavDocument struct {
	Categories []Category `json:"categories"`
}

// Clone returns a deep copy of the document
func (d NavDocument) Clone() NavDocument {
	cats := make([]Category, len(d.Categories))
	for i, c := range d.Categories {
		cats[i] = c.Clone()
	}
	return NavDocument{Categories: cats}
}

// Personal returns the first personal category in the document
func (d NavDocument) Personal() (Category, bool) {
	for _, c := range d.Categories {
		if c.IsPersonal() {
			return c.Clone(), true
		}
	}
	return Category{}, false
}

// WithoutPersonal returns a copy of the document with every personal category removed
func (d NavDocument) WithoutPersonal() NavDocument {
	out := NavDocument{Categories: make([]Category, 0, len(d.Categories))}
	for _, c := range d.Categories {
		if !c.IsPersonal() {
			out.Categories = append(out.Categories, c.Clone())
		}
	}
	return out
}

// WithPersonalFirst strips any personal category from d and prepends p
func (d NavDocument) WithPersonalFirst(p Category) NavDocument {
	base := d.WithoutPersonal()
	p = p.Clone()
	p.ID = PersonalCategoryID
	base.Categories = append([]Category{p}, base.Categories...)
	return base
}

// PruneEmpty returns a copy without the categories that have no sites.
// The personal category is always kept.
func (d NavDocument) PruneEmpty() NavDocument {
	out := NavDocument{Categories: make([]Category, 0, len(d.Categories))}
	for _, c := range d.Categories {
		if len(c.Sites) > 0 || c.IsPersonal() {
			out.Categories = append(out.Categories, c.Clone())
		}
	}
	return out
}

// Normalize replaces nil site lists with empty ones so the document
// serializes with `"sites": []` rather than null.
func (d *NavDocument) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	for i := range d.Categories {
		if d.Categories[i].Sites == nil {
			d.Categories[i].Sites = []Site{}
		}
	}
}

// EnsurePersonal keeps the first personal category and drops any duplicates.
// When none exists an empty one is prepended.
func (d *NavDocument) EnsurePersonal() {
	d.Normalize()
	seen := false
	kept := d.Categories[:0]
	for _, c := range d.Categories {
		if c.IsPersonal() {
			if seen {
				continue
			}
			seen = true
		}
		kept = append(kept, c)
	}
	d.Categories = kept
	if !seen {
		d.Categories = append([]Category{NewPersonalCategory()}, d.Categories...)
	}
}

// BackfillIDs assigns ids to categories and sites that have none
func (d *NavDocument) BackfillIDs() {
	taken := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID != "" {
			taken[c.ID] = true
		}
	}
	for i := range d.Categories {
		c := &d.Categories[i]
		if c.ID == "" {
			c.ID = CategoryIDFromName(c.Name, func(id string) bool { return taken[id] })
			taken[c.ID] = true
		}
		for j := range c.Sites {
			if c.Sites[j].ID == "" {
				c.Sites[j].ID = NewSiteID()
			}
		}
	}
}

// CategoryIndex returns the index of the category with the given id, or -1
func (d NavDocument) CategoryIndex(categoryID string) int {
	return slices.IndexFunc(d.Categories, func(c Category) bool {
		return c.ID == categoryID
	})
}

// FindSite locates a site by id and returns it with its owning category
func (d NavDocument) FindSite(siteID string) (Site, Category, bool) {
	for _, c := range d.Categories {
		for _, s := range c.Sites {
			if s.ID == siteID {
				return s, c.Clone(), true
			}
		}
	}
	return Site{}, Category{}, false
}

// SiteCount returns the total number of sites in the document
func (d NavDocument) SiteCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Sites)
	}
	return n
}

// Search returns the sites whose title, url or description contain query (case-insensitive)
func (d NavDocument) Search(query string) []SiteMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []SiteMatch
	for _, c := range d.Categories {
		for _, s := range c.Sites {
			if q == "" ||
				strings.Contains(strings.ToLower(s.Title), q) ||
				strings.Contains(strings.ToLower(s.URL), q) ||
				strings.Contains(strings.ToLower(s.Description), q) {
				out = append(out, SiteMatch{Site: s, CategoryID: c.ID, CategoryName: c.Name})
			}
		}
	}
	return out
}

// SiteMatch is a search hit together with the category it lives in
type SiteMatch struct {
	Site         Site
	CategoryID   string
	CategoryName string
}

// AddSite inserts s at the head of the category, assigning an id if missing
func (d *NavDocument) AddSite(categoryID string, s Site) (Site, error) {
	idx := d.CategoryIndex(categoryID)
	if idx < 0 {
		return Site{}, fmt.Errorf("category %q: %w", categoryID, ErrUnknownCategory)
	}
	if s.ID == "" {
		s.ID = NewSiteID()
	}
	c := &d.Categories[idx]
	c.Sites = append([]Site{s}, c.Sites...)
	d.EnsurePersonal()
	return s, nil
}

// UpdateSite replaces the fields of the site with the same id, keeping its position
func (d *NavDocument) UpdateSite(s Site) error {
	for i := range d.Categories {
		for j := range d.Categories[i].Sites {
			if d.Categories[i].Sites[j].ID == s.ID {
				d.Categories[i].Sites[j] = s
				return nil
			}
		}
	}
	return fmt.Errorf("site %q: %w", s.ID, ErrUnknownSite)
}

// DeleteSite removes a site. A non-personal category left empty is removed too.
func (d *NavDocument) DeleteSite(siteID string) (Site, error) {
	for i := range d.Categories {
		c := &d.Categories[i]
		j := slices.IndexFunc(c.Sites, func(s Site) bool { return s.ID == siteID })
		if j < 0 {
			continue
		}
		removed := c.Sites[j]
		c.Sites = slices.Delete(c.Sites, j, j+1)
		d.dropIfEmpty(i)
		d.EnsurePersonal()
		return removed, nil
	}
	return Site{}, fmt.Errorf("site %q: %w", siteID, ErrUnknownSite)
}

// MoveSite moves a site into targetCategoryID at position index.
// An index outside the target list appends. Moving within the same category reorders it.
func (d *NavDocument) MoveSite(siteID, targetCategoryID string, index int) error {
	if d.CategoryIndex(targetCategoryID) < 0 {
		return fmt.Errorf("category %q: %w", targetCategoryID, ErrUnknownCategory)
	}

	srcIdx := -1
	var moved Site
	for i := range d.Categories {
		j := slices.IndexFunc(d.Categories[i].Sites, func(s Site) bool { return s.ID == siteID })
		if j >= 0 {
			srcIdx = i
			moved = d.Categories[i].Sites[j]
			d.Categories[i].Sites = slices.Delete(d.Categories[i].Sites, j, j+1)
			break
		}
	}
	if srcIdx < 0 {
		return fmt.Errorf("site %q: %w", siteID, ErrUnknownSite)
	}

	dst := &d.Categories[d.CategoryIndex(targetCategoryID)]
	if index < 0 || index > len(dst.Sites) {
		index = len(dst.Sites)
	}
	dst.Sites = slices.Insert(dst.Sites, index, moved)

	if d.Categories[srcIdx].ID != targetCategoryID {
		d.dropIfEmpty(srcIdx)
	}
	d.EnsurePersonal()
	return nil
}

// AddCategory appends a new, empty category with an id derived from name
func (d *NavDocument) AddCategory(name string) Category {
	id := CategoryIDFromName(name, func(id string) bool { return d.CategoryIndex(id) >= 0 })
	c := Category{ID: id, Name: name, Sites: []Site{}}
	d.Categories = append(d.Categories, c)
	d.EnsurePersonal()
	return c
}

// RenameCategory changes a category's display name; its id is stable
func (d *NavDocument) RenameCategory(categoryID, name string) error {
	idx := d.CategoryIndex(categoryID)
	if idx < 0 {
		return fmt.Errorf("category %q: %w", categoryID, ErrUnknownCategory)
	}
	d.Categories[idx].Name = name
	return nil
}

// MoveCategory moves a category to a new position
func (d *NavDocument) MoveCategory(categoryID string, index int) error {
	idx := d.CategoryIndex(categoryID)
	if idx < 0 {
		return fmt.Errorf("category %q: %w", categoryID, ErrUnknownCategory)
	}
	c := d.Categories[idx]
	d.Categories = slices.Delete(d.Categories, idx, idx+1)
	if index < 0 || index > len(d.Categories) {
		index = len(d.Categories)
	}
	d.Categories = slices.Insert(d.Categories, index, c)
	return nil
}

func (d *NavDocument) dropIfEmpty(i int) {
	c := d.Categories[i]
	if len(c.Sites) == 0 && !c.IsPersonal() {
		d.Categories = slices.Delete(d.Categories, i, i+1)
	}
}
