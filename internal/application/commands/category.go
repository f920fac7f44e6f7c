package commands

import (
	"context"
	"fmt"
	"strings"

	"navhub/internal/application"
	"navhub/internal/application/workspace"
	"navhub/internal/domain"
)

// CategoryResult contains the result of a category operation
type CategoryResult struct {
	Category domain.Category
	Message  string
}

// AddCategoryCommand appends an empty category to the active document
type AddCategoryCommand struct {
	ws   *workspace.Workspace
	Name string
}

// NewAddCategoryCommand creates a new AddCategoryCommand
func NewAddCategoryCommand(ws *workspace.Workspace, name string) *AddCategoryCommand {
	return &AddCategoryCommand{ws: ws, Name: name}
}

// Validate checks if the category can be created
func (c *AddCategoryCommand) Validate() error {
	return application.ValidateRequired("categoryName", c.Name)
}

// Execute runs the add command
func (c *AddCategoryCommand) Execute(ctx context.Context) (*CategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	added, err := c.ws.AddCategory(c.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to add category: %w", err)
	}

	return &CategoryResult{
		Category: added,
		Message:  fmt.Sprintf("Created %s (%s)", added.Name, added.ID),
	}, nil
}

// RenameCategoryCommand changes a category's display name. Its id stays the same.
type RenameCategoryCommand struct {
	ws         *workspace.Workspace
	CategoryID string
	NewName    string
}

// NewRenameCategoryCommand creates a new RenameCategoryCommand
func NewRenameCategoryCommand(ws *workspace.Workspace, categoryID, newName string) *RenameCategoryCommand {
	return &RenameCategoryCommand{
		ws:         ws,
		CategoryID: categoryID,
		NewName:    newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCategoryCommand) Validate() error {
	if strings.TrimSpace(c.CategoryID) == "" {
		return &application.ValidationError{
			Field:   "categoryID",
			Message: "category ID is required",
		}
	}
	return application.ValidateRequired("categoryName", c.NewName)
}

// Execute runs the rename command
func (c *RenameCategoryCommand) Execute(ctx context.Context) (*CategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.ws.RenameCategory(c.CategoryID, c.NewName); err != nil {
		return nil, fmt.Errorf("failed to rename category: %w", err)
	}

	doc := c.ws.Document()
	cat := doc.Categories[doc.CategoryIndex(c.CategoryID)]
	return &CategoryResult{
		Category: cat,
		Message:  fmt.Sprintf("Renamed %s to %s", c.CategoryID, cat.Name),
	}, nil
}

// MoveCategoryCommand moves a category to a new position
type MoveCategoryCommand struct {
	ws         *workspace.Workspace
	CategoryID string
	Index      int
}

// NewMoveCategoryCommand creates a new MoveCategoryCommand
func NewMoveCategoryCommand(ws *workspace.Workspace, categoryID string, index int) *MoveCategoryCommand {
	return &MoveCategoryCommand{ws: ws, CategoryID: categoryID, Index: index}
}

// Validate checks if the move operation is valid
func (c *MoveCategoryCommand) Validate() error {
	if strings.TrimSpace(c.CategoryID) == "" {
		return &application.ValidationError{
			Field:   "categoryID",
			Message: "category ID is required",
		}
	}
	return nil
}

// Execute runs the move command
func (c *MoveCategoryCommand) Execute(ctx context.Context) (*CategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.ws.MoveCategory(c.CategoryID, c.Index); err != nil {
		return nil, fmt.Errorf("failed to move category: %w", err)
	}

	doc := c.ws.Document()
	idx := doc.CategoryIndex(c.CategoryID)
	return &CategoryResult{
		Category: doc.Categories[idx],
		Message:  fmt.Sprintf("Moved %s to position %d", c.CategoryID, idx),
	}, nil
}
