package ports

import (
	"context"
	"encoding/json"

	"navhub/internal/domain"
)

// RemoteFile is one decoded file of the remote repository
type RemoteFile struct {
	Content      json.RawMessage
	VersionToken string
}

// RemoteStore reads and writes a single JSON file in the user's private
// repository with optimistic concurrency.
type RemoteStore interface {
	// ReadFile returns the decoded file, or nil when it does not exist
	ReadFile(ctx context.Context, path string) (*RemoteFile, error)

	// WriteFile creates or replaces the file and returns the new version token.
	// A non-empty token must match the current remote version.
	WriteFile(ctx context.Context, path string, content []byte, token string) (string, error)

	// VerifyIdentity checks the credential and returns the account it belongs to
	VerifyIdentity(ctx context.Context) (domain.UserIdentity, error)

	// EnsureRepository creates the private repository when missing
	EnsureRepository(ctx context.Context, name string) (created bool, err error)

	// Repository returns the "owner/name" this store is bound to
	Repository() string
}

// RemoteDialer builds a RemoteStore for a credential and repository ("owner/name").
// The repository may be empty before the identity is known.
type RemoteDialer func(credential, repository string) RemoteStore
