// Package web fetches built-in catalogs from a static HTTP(S) location.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"navhub/internal/adapters/filesystem"
	"navhub/internal/application"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// maxCatalogSize bounds a single catalog download
const maxCatalogSize = 8 << 20

// Fetcher implements ports.SourceFetcher over HTTP
type Fetcher struct {
	base   *url.URL
	client *http.Client
}

// Ensure Fetcher implements SourceFetcher
var _ ports.SourceFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher resolving source paths against baseURL.
// A nil client gets a 15 second timeout.
func NewFetcher(baseURL string, client *http.Client) (*Fetcher, error) {
	if err := application.ValidateURL("data_url", baseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid data URL: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{base: base, client: client}, nil
}

// Fetch downloads and decodes the catalog at path
func (f *Fetcher) Fetch(ctx context.Context, path string) (domain.NavDocument, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil || ref.IsAbs() || ref.Host != "" {
		return domain.NavDocument{}, &application.ValidationError{Field: "path", Message: fmt.Sprintf("invalid source path: %s", path)}
	}
	target := f.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.NavDocument{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.NavDocument{}, fmt.Errorf("GET %s: %v: %w", target, err, application.ErrNetwork)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NavDocument{}, fmt.Errorf("GET %s: status %d: %w", target, resp.StatusCode, application.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return domain.NavDocument{}, fmt.Errorf("GET %s: status %d: %w", target, resp.StatusCode, application.ErrNetwork)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogSize+1))
	if err != nil {
		return domain.NavDocument{}, fmt.Errorf("GET %s: failed to read body: %v: %w", target, err, application.ErrNetwork)
	}
	if len(body) > maxCatalogSize {
		return domain.NavDocument{}, fmt.Errorf("GET %s: catalog larger than %d bytes: %w", target, maxCatalogSize, application.ErrDecode)
	}

	return filesystem.DecodeDocument(body)
}
