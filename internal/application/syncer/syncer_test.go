package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navhub/internal/adapters/memory"
	"navhub/internal/application"
	"navhub/internal/application/storage"
	"navhub/internal/domain"
	"navhub/internal/ports"
)

const (
	testLogin = "alice"
	testToken = "ghp_test"
	testRepo  = "alice/navhub-data"
	testFile  = "navhub-data.json"
)

type fixture struct {
	orch   *Orchestrator
	store  *storage.Store
	kv     *memory.Store
	remote *memory.Remote
}

func newFixture(t *testing.T, debounce time.Duration) *fixture {
	t.Helper()
	kv := memory.NewStore()
	store := storage.New(kv)
	remote := memory.NewRemote(testLogin, testToken)
	cfg := DefaultConfig()
	cfg.Debounce = debounce
	orch := New(store, remote.Dialer(), cfg)
	t.Cleanup(orch.Close)
	return &fixture{orch: orch, store: store, kv: kv, remote: remote}
}

func (f *fixture) bind(t *testing.T) {
	t.Helper()
	_, _, err := f.orch.Bind(context.Background(), testToken)
	require.NoError(t, err)
}

func personalWith(titles ...string) domain.Category {
	c := domain.NewPersonalCategory()
	for i, title := range titles {
		c.Sites = append(c.Sites, domain.Site{ID: string(rune('a' + i)), Title: title, URL: "https://example.com"})
	}
	return c
}

func remotePayload(t *testing.T, f *fixture) domain.SyncPayload {
	t.Helper()
	data, _, ok := f.remote.File(testRepo, testFile)
	require.True(t, ok, "expected remote file")
	var p domain.SyncPayload
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

func TestBind_ConnectsAndPullsNothing(t *testing.T) {
	f := newFixture(t, time.Hour)

	identity, res, err := f.orch.Bind(context.Background(), testToken)
	require.NoError(t, err)

	assert.Equal(t, testLogin, identity.Login)
	assert.False(t, res.Found)

	state := f.orch.State()
	assert.Equal(t, domain.SyncSuccess, state.Status)
	assert.Equal(t, testRepo, state.Repository)
	assert.Empty(t, state.VersionToken)

	token, repo, ok := f.store.Credential()
	assert.True(t, ok)
	assert.Equal(t, testToken, token)
	assert.Equal(t, testRepo, repo)
}

func TestBind_Unauthorized(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, _, err := f.orch.Bind(context.Background(), "wrong")

	assert.ErrorIs(t, err, application.ErrUnauthorized)
	assert.Equal(t, domain.SyncDisconnected, f.orch.State().Status)
	_, _, ok := f.store.Credential()
	assert.False(t, ok)
}

func TestNotifySaved_IgnoredWhenDisconnected(t *testing.T) {
	f := newFixture(t, 10*time.Millisecond)

	f.orch.NotifySaved()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, domain.SyncDisconnected, f.orch.State().Status)
	assert.Zero(t, f.remote.Writes())
}

func TestDebounce_CoalescesRapidSaves(t *testing.T) {
	f := newFixture(t, 200*time.Millisecond)
	f.bind(t)

	require.NoError(t, f.store.SetPersonal(personalWith("first")))
	f.orch.NotifySaved()
	assert.Equal(t, domain.SyncPending, f.orch.State().Status)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, f.store.SetPersonal(personalWith("first", "second")))
	f.orch.NotifySaved()

	require.Eventually(t, func() bool { return f.remote.Writes() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, f.remote.Writes())

	p := remotePayload(t, f)
	require.NotNil(t, p.PersonalCategory)
	assert.Len(t, p.PersonalCategory.Sites, 2)
	assert.Equal(t, domain.SyncSuccess, f.orch.State().Status)
	assert.NotEmpty(t, f.orch.State().VersionToken)
}

func TestPush_ReadsTokenBeforeFirstWrite(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.bind(t)
	f.remote.Put(testRepo, testFile, []byte(`{"updatedAt":"2024-01-01T00:00:00Z","customSources":null}`))

	// the remote file appeared after bind, so no token is known yet
	require.NoError(t, f.orch.Push(context.Background()))
	assert.Equal(t, 1, f.remote.Writes())
}

func TestPush_StaleTokenConflicts(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.bind(t)
	require.NoError(t, f.orch.Push(context.Background()))
	before := f.kv.Snapshot()

	// another device writes
	f.remote.Put(testRepo, testFile, []byte(`{"updatedAt":"2024-01-01T00:00:00Z","customSources":[]}`))

	err := f.orch.Push(context.Background())

	assert.ErrorIs(t, err, application.ErrConflict)
	state := f.orch.State()
	assert.Equal(t, domain.SyncError, state.Status)
	assert.NotEmpty(t, state.LastError)
	assert.False(t, state.IsSyncing)
	assert.Equal(t, before, f.kv.Snapshot())

	// a manual pull refreshes the token and the next push succeeds
	_, err = f.orch.Pull(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.orch.Push(context.Background()))
}

func TestPull_AppliesPresentFieldsOnly(t *testing.T) {
	f := newFixture(t, time.Hour)
	local := domain.NavDocument{Categories: []domain.Category{{ID: "x", Name: "X", Sites: []domain.Site{{ID: "1"}}}}}
	require.NoError(t, f.store.SetCustomSources([]domain.DataSource{{Name: "Local", Data: &local}}))
	require.NoError(t, f.store.SetTheme("dark"))
	f.bind(t)

	f.remote.Put(testRepo, testFile, []byte(`{
		"updatedAt": "2024-01-01T00:00:00Z",
		"personalCategory": {"categoryId": "custom-user-sites", "categoryName": "我的导航", "sites": [{"id": "r1", "title": "远程", "url": "https://r.example", "proxy": false}]}
	}`))

	res, err := f.orch.Pull(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []string{"personalCategory"}, res.Applied)

	assert.Equal(t, "远程", f.store.Personal().Sites[0].Title)
	assert.Equal(t, "我的导航", f.store.Personal().Name)
	require.Len(t, f.store.CustomSources(), 1)
	assert.Equal(t, "Local", f.store.CustomSources()[0].Name)
	assert.Equal(t, "dark", f.store.Theme())
	assert.NotEmpty(t, f.orch.State().VersionToken)
}

func TestPull_Idempotent(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.bind(t)
	show := false
	payload := domain.SyncPayload{
		UpdatedAt:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Preferences:      &domain.Preferences{Theme: "dark", ProxyDisplay: &show},
		PersonalCategory: func() *domain.Category { c := personalWith("one"); return &c }(),
		CustomSources:    []domain.DataSource{},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	f.remote.Put(testRepo, testFile, data)

	_, err = f.orch.Pull(context.Background())
	require.NoError(t, err)
	first := f.kv.Snapshot()
	firstToken := f.orch.State().VersionToken

	_, err = f.orch.Pull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, f.kv.Snapshot())
	assert.Equal(t, firstToken, f.orch.State().VersionToken)
}

func TestPull_CorruptPayloadIsDecodeError(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.bind(t)
	f.remote.Put(testRepo, testFile, []byte(`not json`))

	_, err := f.orch.Pull(context.Background())

	assert.ErrorIs(t, err, application.ErrDecode)
	assert.Equal(t, domain.SyncError, f.orch.State().Status)
}

func TestLogout_CancelsPendingPush(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond)
	f.bind(t)

	f.orch.NotifySaved()
	require.NoError(t, f.orch.Logout())
	time.Sleep(150 * time.Millisecond)

	assert.Zero(t, f.remote.Writes())
	state := f.orch.State()
	assert.Equal(t, domain.SyncDisconnected, state.Status)
	assert.Empty(t, state.Credential)
	assert.Empty(t, state.VersionToken)

	err := f.orch.Push(context.Background())
	assert.ErrorIs(t, err, application.ErrNotConnected)
}

func TestResume_RestoresStoredCredential(t *testing.T) {
	f := newFixture(t, time.Hour)
	require.NoError(t, f.store.SetCredential(testToken, testRepo))

	_, err := f.orch.Resume(context.Background())
	require.NoError(t, err)

	state := f.orch.State()
	assert.True(t, state.Connected())
	assert.Equal(t, testLogin, state.Identity)
}

func TestResume_NoCredentialIsNoop(t *testing.T) {
	f := newFixture(t, time.Hour)

	res, err := f.orch.Resume(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, domain.SyncDisconnected, f.orch.State().Status)
}

func TestSubscribe_ObservesTransitions(t *testing.T) {
	f := newFixture(t, time.Hour)
	var mu sync.Mutex
	var seen []domain.SyncStatus
	unsubscribe := f.orch.Subscribe(func(s domain.SyncState) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})

	f.bind(t)
	f.orch.NotifySaved()
	require.NoError(t, f.orch.Push(context.Background()))
	unsubscribe()
	f.orch.NotifySaved()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.SyncStatus{
		domain.SyncIdle,    // connected
		domain.SyncSyncing, // pull on bind
		domain.SyncSuccess,
		domain.SyncPending,
		domain.SyncSyncing,
		domain.SyncSuccess,
	}, seen)
}

func TestPush_NetworkFailureLeavesLocalState(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.bind(t)
	before := f.kv.Snapshot()
	f.remote.Fail = &application.RemoteError{Op: "write", Kind: application.ErrNetwork, Err: errors.New("connection reset")}

	err := f.orch.Push(context.Background())

	assert.ErrorIs(t, err, application.ErrNetwork)
	assert.Equal(t, domain.SyncError, f.orch.State().Status)
	assert.Equal(t, before, f.kv.Snapshot())
}

// hooks intercept remote calls so tests can interleave other operations
type hooks struct {
	mu          sync.Mutex
	readErr     error
	beforeRead  func()
	beforeWrite func()
	writeCalls  int
}

type hookedRemote struct {
	ports.RemoteStore
	h *hooks
}

func (r *hookedRemote) ReadFile(ctx context.Context, path string) (*ports.RemoteFile, error) {
	r.h.mu.Lock()
	before, err := r.h.beforeRead, r.h.readErr
	r.h.beforeRead = nil
	r.h.mu.Unlock()
	if before != nil {
		before()
	}
	if err != nil {
		return nil, err
	}
	return r.RemoteStore.ReadFile(ctx, path)
}

func (r *hookedRemote) WriteFile(ctx context.Context, path string, content []byte, token string) (string, error) {
	r.h.mu.Lock()
	r.h.writeCalls++
	before := r.h.beforeWrite
	r.h.beforeWrite = nil
	r.h.mu.Unlock()
	if before != nil {
		before()
	}
	return r.RemoteStore.WriteFile(ctx, path, content, token)
}

func newHookedFixture(t *testing.T, debounce time.Duration) (*fixture, *hooks) {
	t.Helper()
	f := newFixture(t, debounce)
	h := &hooks{}
	base := f.remote.Dialer()
	cfg := DefaultConfig()
	cfg.Debounce = debounce
	f.orch = New(f.store, func(credential, repository string) ports.RemoteStore {
		return &hookedRemote{RemoteStore: base(credential, repository), h: h}
	}, cfg)
	t.Cleanup(f.orch.Close)
	return f, h
}

func TestDebounce_ReplacedCallbackKeepsNewerTimer(t *testing.T) {
	f := newFixture(t, 300*time.Millisecond)
	f.bind(t)
	ctx := context.Background()

	f.orch.NotifySaved()
	f.orch.mu.Lock()
	gen, firstSeq := f.orch.generation, f.orch.armed
	f.orch.mu.Unlock()
	f.orch.NotifySaved()

	// the first timer's callback was already running when the second save replaced it
	f.orch.fire(gen, firstSeq)

	f.orch.mu.Lock()
	pending := f.orch.timer != nil
	f.orch.mu.Unlock()
	assert.True(t, pending, "newer timer handle survives")
	assert.Zero(t, f.remote.Writes())

	require.NoError(t, f.orch.Flush(ctx))
	assert.Equal(t, 1, f.remote.Writes())

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 1, f.remote.Writes(), "flushed timer does not fire again")

	f.orch.NotifySaved()
	f.orch.NotifySaved()
	require.Eventually(t, func() bool { return f.remote.Writes() == 2 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 2, f.remote.Writes(), "later saves still coalesce")
}

func TestPush_PreReadFailureStopsPush(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unauthorized",
			err:  &application.RemoteError{Op: "read", Status: 401, Kind: application.ErrUnauthorized, Err: errors.New("bad credentials")},
			want: application.ErrUnauthorized,
		},
		{
			name: "network",
			err:  &application.RemoteError{Op: "read", Kind: application.ErrNetwork, Err: errors.New("timeout")},
			want: application.ErrNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, h := newHookedFixture(t, time.Hour)
			f.bind(t)
			h.mu.Lock()
			h.readErr = tt.err
			h.mu.Unlock()

			err := f.orch.Push(context.Background())

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, h.writeCalls, "no tokenless write after a failed read")
			assert.Equal(t, domain.SyncError, f.orch.State().Status)
		})
	}
}

func TestPush_MissingRemoteFileCreatesIt(t *testing.T) {
	f, h := newHookedFixture(t, time.Hour)
	f.bind(t)
	h.mu.Lock()
	h.readErr = &application.RemoteError{Op: "read", Status: 404, Kind: application.ErrNotFound, Err: errors.New("missing")}
	h.mu.Unlock()

	require.NoError(t, f.orch.Push(context.Background()))
	assert.Equal(t, 1, f.remote.Writes())
}

func TestPull_LogoutDuringReadDiscardsPayload(t *testing.T) {
	f, h := newHookedFixture(t, time.Hour)
	f.bind(t)

	remote := domain.SyncPayload{PersonalCategory: ptr(personalWith("remote"))}
	data, err := json.Marshal(remote)
	require.NoError(t, err)
	f.remote.Put(testRepo, testFile, data)

	h.mu.Lock()
	h.beforeRead = func() { require.NoError(t, f.orch.Logout()) }
	h.mu.Unlock()

	_, err = f.orch.Pull(context.Background())

	assert.ErrorIs(t, err, application.ErrNotConnected)
	assert.Empty(t, f.store.Personal().Sites, "pulled data must not land after logout")
	assert.Equal(t, domain.SyncDisconnected, f.orch.State().Status)
}

func TestPush_SaveDuringPushStaysPending(t *testing.T) {
	f, h := newHookedFixture(t, 100*time.Millisecond)
	f.bind(t)

	h.mu.Lock()
	h.beforeWrite = func() { f.orch.NotifySaved() }
	h.mu.Unlock()

	require.NoError(t, f.orch.Push(context.Background()))
	assert.Equal(t, domain.SyncPending, f.orch.State().Status, "a debounced push is still armed")

	require.Eventually(t, func() bool { return f.remote.Writes() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return f.orch.State().Status == domain.SyncSuccess }, time.Second, 10*time.Millisecond)
}

func ptr[T any](v T) *T {
	return &v
}
