package memory

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"navhub/internal/application"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

// Verify interface compliance at compile time
var _ ports.RemoteStore = (*remoteSession)(nil)

// Remote is an in-process RemoteStore with the same optimistic concurrency
// rules as the hosted backend: a write must carry the current version
// token of an existing file.
type Remote struct {
	mu       sync.Mutex
	login    string
	token    string
	repos    map[string]bool
	files    map[string][]byte
	versions map[string]string
	writes   int

	// Fail, when set, is returned by every call
	Fail error
}

// NewRemote creates an empty remote owned by login that accepts credential token
func NewRemote(login, token string) *Remote {
	return &Remote{
		login:    login,
		token:    token,
		repos:    make(map[string]bool),
		files:    make(map[string][]byte),
		versions: make(map[string]string),
	}
}

// Dialer returns a RemoteDialer bound to this remote
func (r *Remote) Dialer() ports.RemoteDialer {
	return func(credential, repository string) ports.RemoteStore {
		return &remoteSession{Remote: r, credential: credential, repository: repository}
	}
}

// Put replaces a file out of band, as another device would
func (r *Remote) Put(repository, path string, content []byte) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repository + ":" + path
	r.files[key] = append([]byte(nil), content...)
	r.versions[key] = versionOf(content)
	return r.versions[key]
}

// File returns the stored content and version of a file
func (r *Remote) File(repository, path string) ([]byte, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := repository + ":" + path
	data, ok := r.files[key]
	return data, r.versions[key], ok
}

// Writes returns the number of successful writes
func (r *Remote) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func versionOf(content []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(content))
}

type remoteSession struct {
	*Remote
	credential string
	repository string
}

func (s *remoteSession) Repository() string {
	return s.repository
}

func (s *remoteSession) check(op string) error {
	if s.Fail != nil {
		return s.Fail
	}
	if s.credential != s.token {
		return &application.RemoteError{Op: op, Status: http.StatusUnauthorized, Kind: application.ErrUnauthorized, Err: errors.New("bad credentials")}
	}
	return nil
}

func (s *remoteSession) ReadFile(_ context.Context, path string) (*ports.RemoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("read"); err != nil {
		return nil, err
	}
	key := s.repository + ":" + path
	data, ok := s.files[key]
	if !ok {
		return nil, nil
	}
	return &ports.RemoteFile{Content: json.RawMessage(append([]byte(nil), data...)), VersionToken: s.versions[key]}, nil
}

func (s *remoteSession) WriteFile(_ context.Context, path string, content []byte, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("write"); err != nil {
		return "", err
	}
	key := s.repository + ":" + path
	if current, exists := s.versions[key]; exists && token != current {
		return "", &application.RemoteError{
			Op:     "write",
			Status: http.StatusConflict,
			Kind:   application.ErrConflict,
			Err:    fmt.Errorf("%s does not match %s", token, current),
		}
	}
	s.files[key] = append([]byte(nil), content...)
	s.versions[key] = versionOf(content)
	s.writes++
	return s.versions[key], nil
}

func (s *remoteSession) VerifyIdentity(_ context.Context) (domain.UserIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("verify"); err != nil {
		return domain.UserIdentity{}, err
	}
	return domain.UserIdentity{Login: s.login}, nil
}

func (s *remoteSession) EnsureRepository(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("repository"); err != nil {
		return false, err
	}
	full := name
	if !strings.Contains(name, "/") {
		full = s.login + "/" + name
	}
	if s.repos[full] {
		return false, nil
	}
	s.repos[full] = true
	return true, nil
}
