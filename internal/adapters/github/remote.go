// Package github stores the sync payload in a private GitHub repository
// through the contents API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"

	"navhub/internal/application"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// Config holds the API endpoint and write settings
type Config struct {
	APIURL string
	Branch string
	// HTTPClient is used for every call; nil gets a 20 second timeout
	HTTPClient *http.Client
}

// Store implements ports.RemoteStore for one credential and repository
type Store struct {
	client *gh.Client
	branch string
	owner  string
	repo   string
	login  string
}

// Ensure Store implements RemoteStore
var _ ports.RemoteStore = (*Store)(nil)

// Dialer returns a RemoteDialer that builds stores from cfg
func Dialer(cfg Config) ports.RemoteDialer {
	return func(credential, repository string) ports.RemoteStore {
		s, err := New(cfg, credential, repository)
		if err != nil {
			return &brokenStore{repository: repository, err: err}
		}
		return s
	}
}

// New creates a store. repository is "owner/name" and may be empty until
// the identity is known.
func New(cfg Config, credential, repository string) (*Store, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	client := gh.NewClient(httpClient).WithAuthToken(credential)

	if cfg.APIURL != "" {
		base, err := url.Parse(cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("invalid api url: %w", err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		client.BaseURL = base
	}

	s := &Store{client: client, branch: cfg.Branch}
	if repository != "" {
		owner, name, ok := strings.Cut(repository, "/")
		if !ok || owner == "" || name == "" {
			return nil, &application.ValidationError{Field: "repository", Message: fmt.Sprintf("expected owner/name, got: %s", repository)}
		}
		s.owner, s.repo = owner, name
	}
	return s, nil
}

// Repository returns "owner/name"
func (s *Store) Repository() string {
	if s.owner == "" {
		return ""
	}
	return s.owner + "/" + s.repo
}

// ReadFile fetches path from the configured branch
func (s *Store) ReadFile(ctx context.Context, path string) (*ports.RemoteFile, error) {
	if err := s.requireRepo("read"); err != nil {
		return nil, err
	}

	var opts *gh.RepositoryContentGetOptions
	if s.branch != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: s.branch}
	}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, classify("read", resp, err)
	}
	if file == nil {
		return nil, &application.RemoteError{Op: "read", Kind: application.ErrDecode, Err: fmt.Errorf("%s is a directory", path)}
	}

	// GetContent decodes base64 into raw bytes, so multi-byte UTF-8 survives
	content, err := file.GetContent()
	if err != nil {
		return nil, &application.RemoteError{Op: "read", Kind: application.ErrDecode, Err: err}
	}
	return &ports.RemoteFile{Content: []byte(content), VersionToken: file.GetSHA()}, nil
}

// WriteFile creates path (empty token) or updates it (token = current sha)
func (s *Store) WriteFile(ctx context.Context, path string, content []byte, token string) (string, error) {
	if err := s.requireRepo("write"); err != nil {
		return "", err
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(fmt.Sprintf("navhub sync %s", time.Now().UTC().Format(time.RFC3339))),
		Content: content,
	}
	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	var (
		res  *gh.RepositoryContentResponse
		resp *gh.Response
		err  error
	)
	if token == "" {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
	} else {
		opts.SHA = gh.String(token)
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	}
	if err != nil {
		// an existing file written without its current sha is rejected as unprocessable
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return "", &application.RemoteError{Op: "write", Status: resp.StatusCode, Kind: application.ErrConflict, Err: err}
		}
		return "", classify("write", resp, err)
	}
	if res == nil || res.Content == nil {
		return "", &application.RemoteError{Op: "write", Kind: application.ErrDecode, Err: errors.New("response carries no content sha")}
	}
	return res.Content.GetSHA(), nil
}

// VerifyIdentity returns the account behind the credential
func (s *Store) VerifyIdentity(ctx context.Context) (domain.UserIdentity, error) {
	user, resp, err := s.client.Users.Get(ctx, "")
	if err != nil {
		return domain.UserIdentity{}, classify("verify", resp, err)
	}
	s.login = user.GetLogin()
	return domain.UserIdentity{Login: user.GetLogin(), Name: user.GetName()}, nil
}

// EnsureRepository creates a private repository named name under the
// authenticated account unless it already exists
func (s *Store) EnsureRepository(ctx context.Context, name string) (bool, error) {
	if err := application.ValidateRepositoryName("repository", name); err != nil {
		return false, err
	}
	if s.login == "" {
		if _, err := s.VerifyIdentity(ctx); err != nil {
			return false, err
		}
	}

	_, resp, err := s.client.Repositories.Get(ctx, s.login, name)
	if err == nil {
		return false, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return false, classify("repository", resp, err)
	}

	_, resp, err = s.client.Repositories.Create(ctx, "", &gh.Repository{
		Name:        gh.String(name),
		Description: gh.String("navhub bookmark sync data"),
		Private:     gh.Bool(true),
		AutoInit:    gh.Bool(true),
	})
	if err != nil {
		return false, classify("create repository", resp, err)
	}
	return true, nil
}

func (s *Store) requireRepo(op string) error {
	if s.owner == "" {
		return &application.RemoteError{Op: op, Kind: application.ErrNotConnected, Err: errors.New("no repository bound")}
	}
	return nil
}

// classify maps an API failure onto the error taxonomy
func classify(op string, resp *gh.Response, err error) error {
	if resp == nil {
		return &application.RemoteError{Op: op, Kind: application.ErrNetwork, Err: err}
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &application.RemoteError{Op: op, Status: resp.StatusCode, Kind: application.ErrNetwork, Err: err}
	}

	kind := application.ErrNetwork
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = application.ErrUnauthorized
	case http.StatusNotFound:
		kind = application.ErrNotFound
	case http.StatusConflict:
		kind = application.ErrConflict
	}
	return &application.RemoteError{Op: op, Status: resp.StatusCode, Kind: kind, Err: err}
}

// brokenStore reports a dial failure from every call
type brokenStore struct {
	repository string
	err        error
}

func (b *brokenStore) Repository() string { return b.repository }

func (b *brokenStore) ReadFile(context.Context, string) (*ports.RemoteFile, error) {
	return nil, b.err
}

func (b *brokenStore) WriteFile(context.Context, string, []byte, string) (string, error) {
	return "", b.err
}

func (b *brokenStore) VerifyIdentity(context.Context) (domain.UserIdentity, error) {
	return domain.UserIdentity{}, b.err
}

func (b *brokenStore) EnsureRepository(context.Context, string) (bool, error) {
	return false, b.err
}
