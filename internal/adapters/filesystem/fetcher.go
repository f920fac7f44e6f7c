package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"navhub/internal/application"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// Fetcher implements ports.SourceFetcher over an fs.FS holding the built-in
// catalogs under their source paths (data/*.json)
type Fetcher struct {
	fsys fs.FS
	name string
}

// Ensure Fetcher implements SourceFetcher
var _ ports.SourceFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher over fsys. name is used in error messages.
func NewFetcher(fsys fs.FS, name string) *Fetcher {
	return &Fetcher{fsys: fsys, name: name}
}

// NewDirFetcher creates a fetcher rooted at a directory on disk
func NewDirFetcher(dir string) *Fetcher {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[1:])
	}
	return &Fetcher{fsys: os.DirFS(dir), name: dir}
}

// Fetch reads and decodes the catalog stored at p
func (f *Fetcher) Fetch(ctx context.Context, p string) (domain.NavDocument, error) {
	if err := ctx.Err(); err != nil {
		return domain.NavDocument{}, err
	}

	clean := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(clean) {
		return domain.NavDocument{}, &application.ValidationError{Field: "path", Message: fmt.Sprintf("invalid source path: %s", p)}
	}

	data, err := fs.ReadFile(f.fsys, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NavDocument{}, fmt.Errorf("%s in %s: %w", clean, f.name, application.ErrNotFound)
	}
	if err != nil {
		return domain.NavDocument{}, fmt.Errorf("failed to read %s: %w", clean, err)
	}

	return DecodeDocument(data)
}

// DecodeDocument parses a NavDocument-shaped catalog
func DecodeDocument(data []byte) (domain.NavDocument, error) {
	var doc domain.NavDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.NavDocument{}, fmt.Errorf("catalog: %v: %w", err, application.ErrDecode)
	}
	doc.Normalize()
	return doc, nil
}

// Chain tries each fetcher in order and moves on only when a catalog is not
// found, so a data directory can override the embedded catalogs file by file
type Chain []ports.SourceFetcher

// Ensure Chain implements SourceFetcher
var _ ports.SourceFetcher = Chain(nil)

// Fetch returns the first catalog found
func (c Chain) Fetch(ctx context.Context, p string) (domain.NavDocument, error) {
	err := fmt.Errorf("%s: %w", p, application.ErrNotFound)
	for _, f := range c {
		doc, ferr := f.Fetch(ctx, p)
		if ferr == nil {
			return doc, nil
		}
		if !errors.Is(ferr, application.ErrNotFound) {
			return domain.NavDocument{}, ferr
		}
		err = ferr
	}
	return domain.NavDocument{}, err
}
