package github

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navhub/internal/application"
)

// fakeAPI serves the subset of the GitHub REST API the store calls
type fakeAPI struct {
	mu      sync.Mutex
	token   string
	repos   map[string]bool
	files   map[string][]byte
	shas    map[string]string
	created int
}

func newFakeAPI(t *testing.T, token string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		token: token,
		repos: make(map[string]bool),
		files: make(map[string][]byte),
		shas:  make(map[string]string),
	}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)
	return api, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (a *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !strings.HasSuffix(r.Header.Get("Authorization"), " "+a.token) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/user":
		writeJSON(w, http.StatusOK, map[string]string{"login": "alice", "name": "Alice"})

	case r.Method == http.MethodPost && r.URL.Path == "/user/repos":
		var body struct {
			Name    string `json:"name"`
			Private bool   `json:"private"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if !body.Private {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "expected private"})
			return
		}
		a.repos["alice/"+body.Name] = true
		a.created++
		writeJSON(w, http.StatusCreated, map[string]any{"name": body.Name, "private": true})

	case strings.HasPrefix(r.URL.Path, "/repos/") && strings.Contains(r.URL.Path, "/contents/"):
		a.serveContents(w, r)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/repos/"):
		full := strings.TrimPrefix(r.URL.Path, "/repos/")
		if !a.repos[full] {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"full_name": full})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (a *fakeAPI) serveContents(w http.ResponseWriter, r *http.Request) {
	repo, path, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/repos/"), "/contents/")
	key := repo + ":" + path

	switch r.Method {
	case http.MethodGet:
		data, ok := a.files[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		// the API wraps base64 at 60 columns
		var wrapped strings.Builder
		for len(encoded) > 60 {
			wrapped.WriteString(encoded[:60] + "\n")
			encoded = encoded[60:]
		}
		wrapped.WriteString(encoded)
		writeJSON(w, http.StatusOK, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  wrapped.String(),
			"sha":      a.shas[key],
			"path":     path,
		})

	case http.MethodPut:
		var body struct {
			Message string  `json:"message"`
			Content []byte  `json:"content"`
			SHA     *string `json:"sha"`
			Branch  string  `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		current, exists := a.shas[key]
		if exists && body.SHA == nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": `Invalid request. "sha" wasn't supplied.`})
			return
		}
		if exists && *body.SHA != current {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "is at " + current + " but expected " + *body.SHA})
			return
		}
		a.files[key] = body.Content
		a.shas[key] = fmt.Sprintf("%x", sha1.Sum(body.Content))
		status := http.StatusOK
		if !exists {
			status = http.StatusCreated
		}
		writeJSON(w, status, map[string]any{"content": map[string]string{"sha": a.shas[key], "path": path}})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "nope"})
	}
}

func dial(t *testing.T, srv *httptest.Server, token, repo string) *Store {
	t.Helper()
	s, err := New(Config{APIURL: srv.URL, Branch: "main", HTTPClient: srv.Client()}, token, repo)
	require.NoError(t, err)
	return s
}

func TestStore_VerifyIdentity(t *testing.T) {
	_, srv := newFakeAPI(t, "secret")
	ctx := context.Background()

	id, err := dial(t, srv, "secret", "").VerifyIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Login)
	assert.Equal(t, "Alice", id.Name)

	_, err = dial(t, srv, "wrong", "").VerifyIdentity(ctx)
	assert.ErrorIs(t, err, application.ErrUnauthorized)
}

func TestStore_EnsureRepository(t *testing.T) {
	api, srv := newFakeAPI(t, "secret")
	s := dial(t, srv, "secret", "")
	ctx := context.Background()

	created, err := s.EnsureRepository(ctx, "navhub-data")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureRepository(ctx, "navhub-data")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, api.created)

	_, err = s.EnsureRepository(ctx, "bad/name")
	var vErr *application.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestStore_ReadWriteRoundTrip(t *testing.T) {
	_, srv := newFakeAPI(t, "secret")
	s := dial(t, srv, "secret", "alice/navhub-data")
	ctx := context.Background()

	file, err := s.ReadFile(ctx, "navhub-data.json")
	require.NoError(t, err)
	assert.Nil(t, file, "missing file is not an error")

	payload := []byte(`{"personalCategory":{"categoryId":"custom-user-sites","categoryName":"我的导航 ✨","sites":[]},"note":"` + strings.Repeat("ü", 40) + `"}`)
	sha, err := s.WriteFile(ctx, "navhub-data.json", payload, "")
	require.NoError(t, err)
	require.NotEmpty(t, sha)

	file, err = s.ReadFile(ctx, "navhub-data.json")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, sha, file.VersionToken)
	assert.JSONEq(t, string(payload), string(file.Content))

	next, err := s.WriteFile(ctx, "navhub-data.json", []byte(`{}`), sha)
	require.NoError(t, err)
	assert.NotEqual(t, sha, next)
}

func TestStore_WriteConflicts(t *testing.T) {
	_, srv := newFakeAPI(t, "secret")
	s := dial(t, srv, "secret", "alice/navhub-data")
	ctx := context.Background()

	first, err := s.WriteFile(ctx, "navhub-data.json", []byte(`{"v":1}`), "")
	require.NoError(t, err)
	_, err = s.WriteFile(ctx, "navhub-data.json", []byte(`{"v":2}`), first)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token on existing file", token: ""},
		{name: "superseded token", token: first},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.WriteFile(ctx, "navhub-data.json", []byte(`{"v":3}`), tt.token)
			assert.ErrorIs(t, err, application.ErrConflict)
		})
	}
}

func TestStore_TransportFailure(t *testing.T) {
	_, srv := newFakeAPI(t, "secret")
	s := dial(t, srv, "secret", "alice/navhub-data")
	srv.Close()

	_, err := s.ReadFile(context.Background(), "navhub-data.json")
	assert.ErrorIs(t, err, application.ErrNetwork)
}

func TestNew_RejectsMalformedRepository(t *testing.T) {
	_, err := New(Config{}, "secret", "no-owner")
	var vErr *application.ValidationError
	assert.ErrorAs(t, err, &vErr)

	store := Dialer(Config{})("secret", "no-owner")
	_, err = store.ReadFile(context.Background(), "x.json")
	assert.ErrorAs(t, err, &vErr)
}
