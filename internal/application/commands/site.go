package commands

import (
	"context"
	"fmt"
	"strings"

	"navhub/internal/application"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// SiteResult contains the result of a site operation
type SiteResult struct {
	Site    domain.Site
	Message string
}

// AddSiteCommand adds a site at the head of a category
type AddSiteCommand struct {
	ws         *workspace.Workspace
	CategoryID string
	Site       domain.Site
}

// NewAddSiteCommand creates a new AddSiteCommand
func NewAddSiteCommand(ws *workspace.Workspace, categoryID string, site domain.Site) *AddSiteCommand {
	return &AddSiteCommand{
		ws:         ws,
		CategoryID: categoryID,
		Site:       site,
	}
}

// Validate checks if the site can be added
func (c *AddSiteCommand) Validate() error {
	if strings.TrimSpace(c.CategoryID) == "" {
		return &application.ValidationError{
			Field:   "categoryID",
			Message: "category ID is required",
		}
	}
	if err := application.ValidateRequired("title", c.Site.Title); err != nil {
		return err
	}
	return application.ValidateURL("url", c.Site.URL)
}

// Execute runs the add command
func (c *AddSiteCommand) Execute(ctx context.Context) (*SiteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	added, err := c.ws.AddSite(c.CategoryID, c.Site)
	if err != nil {
		return nil, fmt.Errorf("failed to add site: %w", err)
	}

	return &SiteResult{
		Site:    added,
		Message: fmt.Sprintf("Added %s to %s", added.Title, c.CategoryID),
	}, nil
}

// EditSiteCommand replaces the fields of an existing site
type EditSiteCommand struct {
	ws   *workspace.Workspace
	Site domain.Site
}

// NewEditSiteCommand creates a new EditSiteCommand
func NewEditSiteCommand(ws *workspace.Workspace, site domain.Site) *EditSiteCommand {
	return &EditSiteCommand{ws: ws, Site: site}
}

// Validate checks if the edit is valid
func (c *EditSiteCommand) Validate() error {
	if strings.TrimSpace(c.Site.ID) == "" {
		return &application.ValidationError{
			Field:   "siteID",
			Message: "site ID is required",
		}
	}
	if err := application.ValidateRequired("title", c.Site.Title); err != nil {
		return err
	}
	return application.ValidateURL("url", c.Site.URL)
}

// Execute runs the edit command
func (c *EditSiteCommand) Execute(ctx context.Context) (*SiteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.ws.UpdateSite(c.Site); err != nil {
		return nil, fmt.Errorf("failed to edit site: %w", err)
	}

	return &SiteResult{
		Site:    c.Site,
		Message: fmt.Sprintf("Updated %s", c.Site.Title),
	}, nil
}

// DeleteSiteCommand removes a site
type DeleteSiteCommand struct {
	ws     *workspace.Workspace
	SiteID string
}

// NewDeleteSiteCommand creates a new DeleteSiteCommand
func NewDeleteSiteCommand(ws *workspace.Workspace, siteID string) *DeleteSiteCommand {
	return &DeleteSiteCommand{ws: ws, SiteID: siteID}
}

// Validate checks if the delete operation is valid
func (c *DeleteSiteCommand) Validate() error {
	if strings.TrimSpace(c.SiteID) == "" {
		return &application.ValidationError{
			Field:   "siteID",
			Message: "site ID is required",
		}
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteSiteCommand) Execute(ctx context.Context) (*SiteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	removed, err := c.ws.DeleteSite(c.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete site: %w", err)
	}

	return &SiteResult{
		Site:    removed,
		Message: fmt.Sprintf("Deleted %s", removed.Title),
	}, nil
}

// MoveSiteCommand moves a site to a position in a category
type MoveSiteCommand struct {
	ws               *workspace.Workspace
	SiteID           string
	TargetCategoryID string
	Index            int
}

// NewMoveSiteCommand creates a new MoveSiteCommand. A negative index appends.
func NewMoveSiteCommand(ws *workspace.Workspace, siteID, targetCategoryID string, index int) *MoveSiteCommand {
	return &MoveSiteCommand{
		ws:               ws,
		SiteID:           siteID,
		TargetCategoryID: targetCategoryID,
		Index:            index,
	}
}

// Validate checks if the move operation is valid
func (c *MoveSiteCommand) Validate() error {
	if strings.TrimSpace(c.SiteID) == "" {
		return &application.ValidationError{
			Field:   "siteID",
			Message: "site ID is required",
		}
	}
	if strings.TrimSpace(c.TargetCategoryID) == "" {
		return &application.ValidationError{
			Field:   "categoryID",
			Message: "target category ID is required",
		}
	}
	return nil
}

// Execute runs the move command
func (c *MoveSiteCommand) Execute(ctx context.Context) (*SiteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.ws.MoveSite(c.SiteID, c.TargetCategoryID, c.Index); err != nil {
		return nil, fmt.Errorf("failed to move site: %w", err)
	}

	site, _, _ := c.ws.Document().FindSite(c.SiteID)
	return &SiteResult{
		Site:    site,
		Message: fmt.Sprintf("Moved %s to %s", site.Title, c.TargetCategoryID),
	}, nil
}
