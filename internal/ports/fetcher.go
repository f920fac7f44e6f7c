package ports

import (
	"context"

	"navhub/internal/domain"
)

// SourceFetcher retrieves the base document of a built-in source by path
type SourceFetcher interface {
	Fetch(ctx context.Context, path string) (domain.NavDocument, error)
}
