package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"navhub/internal/application"
	"navhub/internal/application/importer"
	"navhub/internal/application/workspace"
)

// ImportResult contains the result of an import
type ImportResult struct {
	Kind       importer.Kind
	Categories int
	Sites      int
	Switched   *workspace.SwitchResult
	Message    string
}

// ImportCommand stores an external file as a new custom source and switches to it
type ImportCommand struct {
	ws   *workspace.Workspace
	Name string
	Data []byte
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(ws *workspace.Workspace, name string, data []byte) *ImportCommand {
	return &ImportCommand{ws: ws, Name: name, Data: data}
}

// Validate checks the source name. Format problems surface from Execute.
func (c *ImportCommand) Validate() error {
	if err := application.ValidateRequired("sourceName", c.Name); err != nil {
		return err
	}
	if c.ws.Registry().Taken(strings.TrimSpace(c.Name)) {
		return &application.ValidationError{
			Field:   "sourceName",
			Message: fmt.Sprintf("a source named %q already exists", strings.TrimSpace(c.Name)),
		}
	}
	return nil
}

// Execute parses, converts and stores the import
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	parsed, err := importer.Detect(c.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}
	doc := parsed.ToDocument()
	if doc.SiteCount() == 0 {
		return nil, &application.ParseError{Format: parsed.Kind.String(), Reason: "no usable links found"}
	}

	switched, err := c.ws.ImportSource(ctx, c.Name, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to import: %w", err)
	}

	return &ImportResult{
		Kind:       parsed.Kind,
		Categories: len(doc.Categories),
		Sites:      doc.SiteCount(),
		Switched:   switched,
		Message:    fmt.Sprintf("Imported %d sites in %d categories as %s", doc.SiteCount(), len(doc.Categories), strings.TrimSpace(c.Name)),
	}, nil
}

// ExportResult contains the serialized active document
type ExportResult struct {
	Filename string
	Data     []byte
}

// ExportCommand serializes the active document
type ExportCommand struct {
	ws  *workspace.Workspace
	Now func() time.Time
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(ws *workspace.Workspace) *ExportCommand {
	return &ExportCommand{ws: ws, Now: time.Now}
}

// Execute runs the export
func (c *ExportCommand) Execute(ctx context.Context) (*ExportResult, error) {
	data, err := importer.ExportJSON(c.ws.Document())
	if err != nil {
		return nil, err
	}

	name := c.ws.Current()
	if src, ok := c.ws.Registry().Resolve(name); ok {
		name = src.Name
	}
	return &ExportResult{
		Filename: importer.ExportFilename(name, c.Now()),
		Data:     data,
	}, nil
}
