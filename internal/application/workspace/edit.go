package workspace

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"navhub/internal/application"
	"navhub/internal/domain"
)

// AddSite inserts a site at the head of a category
func (w *Workspace) AddSite(categoryID string, s domain.Site) (domain.Site, error) {
	if err := application.ValidateRequired("title", s.Title); err != nil {
		return domain.Site{}, err
	}
	if err := application.ValidateURL("url", s.URL); err != nil {
		return domain.Site{}, err
	}
	s.URL = strings.TrimSpace(s.URL)
	if s.Icon == "" {
		s.Icon = DefaultIcon(s.URL)
	}

	var added domain.Site
	err := w.mutate(func(doc *domain.NavDocument) error {
		var err error
		added, err = doc.AddSite(categoryID, s)
		return err
	})
	return added, err
}

// UpdateSite replaces the fields of an existing site; its id and position are kept
func (w *Workspace) UpdateSite(s domain.Site) error {
	if err := application.ValidateRequired("siteID", s.ID); err != nil {
		return err
	}
	if err := application.ValidateURL("url", s.URL); err != nil {
		return err
	}
	if s.Icon == "" {
		s.Icon = DefaultIcon(s.URL)
	}
	return w.mutate(func(doc *domain.NavDocument) error {
		return doc.UpdateSite(s)
	})
}

// DeleteSite removes a site, dropping its category if it becomes empty
func (w *Workspace) DeleteSite(siteID string) (domain.Site, error) {
	var removed domain.Site
	err := w.mutate(func(doc *domain.NavDocument) error {
		var err error
		removed, err = doc.DeleteSite(siteID)
		return err
	})
	return removed, err
}

// MoveSite moves a site to position index of targetCategoryID
func (w *Workspace) MoveSite(siteID, targetCategoryID string, index int) error {
	return w.mutate(func(doc *domain.NavDocument) error {
		return doc.MoveSite(siteID, targetCategoryID, index)
	})
}

// AddCategory appends an empty category.
// Note that an empty non-personal category is pruned when a custom source is saved.
func (w *Workspace) AddCategory(name string) (domain.Category, error) {
	if err := application.ValidateRequired("categoryName", name); err != nil {
		return domain.Category{}, err
	}
	var added domain.Category
	err := w.mutate(func(doc *domain.NavDocument) error {
		added = doc.AddCategory(strings.TrimSpace(name))
		return nil
	})
	return added, err
}

// RenameCategory changes a category's display name
func (w *Workspace) RenameCategory(categoryID, name string) error {
	if err := application.ValidateRequired("categoryName", name); err != nil {
		return err
	}
	return w.mutate(func(doc *domain.NavDocument) error {
		return doc.RenameCategory(categoryID, strings.TrimSpace(name))
	})
}

// MoveCategory moves a category to a new position
func (w *Workspace) MoveCategory(categoryID string, index int) error {
	return w.mutate(func(doc *domain.NavDocument) error {
		return doc.MoveCategory(categoryID, index)
	})
}

// ImportSource stores doc as a new custom source and switches to it
func (w *Workspace) ImportSource(ctx context.Context, name string, doc domain.NavDocument) (*SwitchResult, error) {
	src, err := w.registry.AddCustom(name, doc)
	if err != nil {
		return nil, err
	}
	w.notify()
	return w.SwitchTo(ctx, src.Key(), false)
}

// DeleteSource removes a custom source. Deleting the active source
// switches to the default one.
func (w *Workspace) DeleteSource(ctx context.Context, name string) (*SwitchResult, error) {
	if src, ok := w.registry.Resolve(name); ok && src.IsBuiltin() {
		return nil, fmt.Errorf("%s: %w", src.Name, application.ErrReadOnlySource)
	}
	if err := w.registry.DeleteCustom(name); err != nil {
		return nil, err
	}
	w.notify()

	if w.Current() != name {
		return nil, nil
	}
	return w.SwitchTo(ctx, domain.DefaultSourcePath, false)
}

// SetTheme stores the theme preference
func (w *Workspace) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return &application.ValidationError{Field: "theme", Message: fmt.Sprintf("expected light or dark, got: %s", theme)}
	}
	if err := w.store.SetTheme(theme); err != nil {
		return err
	}
	w.notify()
	return nil
}

// SetProxyDisplay stores whether proxy-only sites are shown
func (w *Workspace) SetProxyDisplay(show bool) error {
	if err := w.store.SetProxyDisplay(show); err != nil {
		return err
	}
	w.notify()
	return nil
}

// Preferences returns the stored theme and proxy display setting
func (w *Workspace) Preferences() (theme string, showProxy bool) {
	return w.store.Theme(), w.store.ProxyDisplay()
}

func (w *Workspace) notify() {
	w.mu.Lock()
	listener := w.listener
	w.mu.Unlock()
	if listener != nil {
		listener.NotifySaved()
	}
}

// DefaultIcon returns the conventional favicon location for a site URL
func DefaultIcon(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}
