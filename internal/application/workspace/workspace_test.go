package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navhub/internal/adapters/memory"
	"navhub/internal/application"
	"navhub/internal/application/registry"
	"navhub/internal/application/storage"
	"navhub/internal/domain"
)

type fakeFetcher struct {
	mu    sync.Mutex
	docs  map[string]domain.NavDocument
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, path string) (domain.NavDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	doc, ok := f.docs[path]
	if !ok {
		return domain.NavDocument{}, fmt.Errorf("GET %s: status 404: %w", path, application.ErrNotFound)
	}
	return doc.Clone(), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingListener struct {
	mu    sync.Mutex
	count int
}

func (l *countingListener) NotifySaved() {
	l.mu.Lock()
	l.count++
	l.mu.Unlock()
}

func (l *countingListener) saves() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func catalog(id, siteID string) domain.NavDocument {
	return domain.NavDocument{Categories: []domain.Category{
		{ID: id, Name: id, Sites: []domain.Site{{ID: siteID, Title: siteID, URL: "https://" + siteID + ".example"}}},
	}}
}

type fixture struct {
	ws       *Workspace
	store    *storage.Store
	kv       *memory.Store
	fetcher  *fakeFetcher
	listener *countingListener
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := memory.NewStore()
	store := storage.New(kv)
	fetcher := &fakeFetcher{docs: map[string]domain.NavDocument{
		domain.DefaultSourcePath: catalog("media", "m1"),
		"data/02-tools.json":     catalog("tools", "t1"),
	}}
	reg := registry.New(domain.BuiltinSources, store)
	ws := New(reg, store, fetcher)
	listener := &countingListener{}
	ws.SetListener(listener)
	return &fixture{ws: ws, store: store, kv: kv, fetcher: fetcher, listener: listener}
}

func personalCount(doc domain.NavDocument) int {
	n := 0
	for _, c := range doc.Categories {
		if c.IsPersonal() {
			n++
		}
	}
	return n
}

func TestSwitchTo_BuiltinMergesPersonalFirst(t *testing.T) {
	f := newFixture(t)
	personal := domain.NewPersonalCategory()
	personal.Sites = []domain.Site{{ID: "p1", Title: "Mine", URL: "https://mine.example"}}
	require.NoError(t, f.store.SetPersonal(personal))

	res, err := f.ws.SwitchTo(context.Background(), "data/02-tools.json", false)
	require.NoError(t, err)
	assert.Equal(t, "data/02-tools.json", res.Identifier)

	doc := f.ws.Document()
	require.Len(t, doc.Categories, 2)
	assert.True(t, doc.Categories[0].IsPersonal())
	assert.Equal(t, "p1", doc.Categories[0].Sites[0].ID)
	assert.Equal(t, "tools", doc.Categories[1].ID)

	last, _ := f.store.LastSource()
	assert.Equal(t, "data/02-tools.json", last)
}

func TestSwitchTo_StripsPersonalFromFetchedBase(t *testing.T) {
	f := newFixture(t)
	polluted := catalog("tools", "t1")
	polluted.Categories = append(polluted.Categories, domain.Category{
		ID: domain.PersonalCategoryID, Name: "leaked", Sites: []domain.Site{{ID: "leak"}},
	})
	f.fetcher.docs["data/02-tools.json"] = polluted

	_, err := f.ws.SwitchTo(context.Background(), "data/02-tools.json", false)
	require.NoError(t, err)

	doc := f.ws.Document()
	assert.Equal(t, 1, personalCount(doc))
	assert.Empty(t, doc.Categories[0].Sites)
}

func TestSwitchTo_DefaultUsesCacheWithoutFetching(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetCachedBase(catalog("cached", "c1")))

	res, err := f.ws.SwitchTo(context.Background(), domain.DefaultSourcePath, true)
	require.NoError(t, err)

	assert.True(t, res.FromCache)
	assert.Zero(t, f.fetcher.callCount())
	assert.Equal(t, "cached", f.ws.Document().Categories[1].ID)
}

func TestSwitchTo_CacheIgnoredForOtherBuiltins(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetCachedBase(catalog("cached", "c1")))

	res, err := f.ws.SwitchTo(context.Background(), "data/02-tools.json", true)
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, 1, f.fetcher.callCount())
	assert.Equal(t, "tools", f.ws.Document().Categories[1].ID)
}

func TestSwitchTo_CorruptCacheFallsBackToFetch(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.kv.Set(storage.KeyBaseCache, "{broken"))

	res, err := f.ws.SwitchTo(context.Background(), domain.DefaultSourcePath, true)
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, 1, f.fetcher.callCount())
}

func TestSwitchTo_UnknownFallsBackToDefault(t *testing.T) {
	f := newFixture(t)

	res, err := f.ws.SwitchTo(context.Background(), "ghost.json", false)
	require.NoError(t, err)

	assert.Equal(t, "ghost.json", res.FallbackFrom)
	assert.Equal(t, domain.DefaultSourcePath, res.Identifier)
	assert.Equal(t, domain.DefaultSourcePath, f.ws.Current())

	last, _ := f.store.LastSource()
	assert.Equal(t, domain.DefaultSourcePath, last)
}

func TestSwitchTo_FetchFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	_, err := f.ws.SwitchTo(context.Background(), "data/02-tools.json", false)
	require.NoError(t, err)
	before := f.ws.Document()

	_, err = f.ws.SwitchTo(context.Background(), "data/03-software.json", false)

	var switchErr *application.SwitchError
	require.True(t, errors.As(err, &switchErr))
	assert.Equal(t, "Software", switchErr.Source)
	assert.ErrorIs(t, err, application.ErrNotFound)
	assert.Equal(t, "data/02-tools.json", f.ws.Current())
	assert.Equal(t, before, f.ws.Document())

	last, _ := f.store.LastSource()
	assert.Equal(t, "data/02-tools.json", last)
}

func TestSwitchTo_CustomIsIsolatedFromRegistry(t *testing.T) {
	f := newFixture(t)
	_, err := f.ws.ImportSource(context.Background(), "Mine", catalog("own", "o1"))
	require.NoError(t, err)

	site, err := f.ws.AddSite("own", domain.Site{Title: "Added", URL: "https://added.example/page"})
	require.NoError(t, err)
	assert.Equal(t, "https://added.example/favicon.ico", site.Icon)

	// registry copy was updated by save, not aliased
	src, ok := f.ws.Registry().Resolve("Mine")
	require.True(t, ok)
	doc := f.ws.Document()
	doc.Categories[1].Sites[0].Title = "local only"
	assert.NotEqual(t, "local only", src.Data.Categories[1].Sites[0].Title)
	assert.Equal(t, 1, personalCount(f.ws.Document()))
}

func TestSave_BuiltinPersistsPersonalAndDefaultCacheOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ws.SwitchTo(ctx, "data/02-tools.json", false)
	require.NoError(t, err)
	_, err = f.ws.AddSite(domain.PersonalCategoryID, domain.Site{Title: "P", URL: "https://p.example"})
	require.NoError(t, err)

	_, cached := f.store.CachedBase()
	assert.False(t, cached, "non-default built-in must not be cached")
	assert.Len(t, f.store.Personal().Sites, 1)

	_, err = f.ws.SwitchTo(ctx, domain.DefaultSourcePath, false)
	require.NoError(t, err)
	require.NoError(t, f.ws.Save())

	base, cached := f.store.CachedBase()
	require.True(t, cached)
	assert.Equal(t, 0, personalCount(base))
	assert.Equal(t, "media", base.Categories[0].ID)
	assert.Equal(t, 2, f.listener.saves())
}

func TestSave_CustomPrunesEmptyCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ws.ImportSource(ctx, "Mine", catalog("own", "o1"))
	require.NoError(t, err)

	_, err = f.ws.AddCategory("Later")
	require.NoError(t, err)

	persisted := f.store.CustomSources()
	require.Len(t, persisted, 1)
	for _, c := range persisted[0].Data.Categories {
		assert.NotEqual(t, "later", c.ID)
	}
	assert.Equal(t, 1, personalCount(*persisted[0].Data))
}

func TestMutations_KeepExactlyOnePersonal(t *testing.T) {
	f := newFixture(t)
	_, err := f.ws.SwitchTo(context.Background(), domain.DefaultSourcePath, false)
	require.NoError(t, err)

	_, err = f.ws.DeleteSite("m1")
	require.NoError(t, err)

	doc := f.ws.Document()
	require.Len(t, doc.Categories, 1)
	assert.True(t, doc.Categories[0].IsPersonal())

	_, err = f.ws.DeleteSite("m1")
	assert.ErrorIs(t, err, domain.ErrUnknownSite)
	assert.Equal(t, 1, personalCount(f.ws.Document()))
}

func TestAddSite_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.AddSite(domain.PersonalCategoryID, domain.Site{Title: "", URL: "https://x.example"})
	var valErr *application.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = f.ws.AddSite(domain.PersonalCategoryID, domain.Site{Title: "x", URL: "not a url"})
	assert.True(t, errors.As(err, &valErr))
	assert.Zero(t, f.listener.saves())
}

func TestDeleteSource_ActiveRevertsToDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	personal := domain.NewPersonalCategory()
	personal.Sites = []domain.Site{{ID: "p1", Title: "Mine", URL: "https://mine.example"}}
	require.NoError(t, f.store.SetPersonal(personal))

	_, err := f.ws.ImportSource(ctx, "Scratch", catalog("own", "o1"))
	require.NoError(t, err)
	require.Equal(t, "Scratch", f.ws.Current())

	res, err := f.ws.DeleteSource(ctx, "Scratch")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, domain.DefaultSourcePath, f.ws.Current())
	doc := f.ws.Document()
	assert.True(t, doc.Categories[0].IsPersonal())
	assert.Equal(t, "p1", doc.Categories[0].Sites[0].ID)

	last, _ := f.store.LastSource()
	assert.Equal(t, domain.DefaultSourcePath, last)
}

func TestDeleteSource_BuiltinIsReadOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.DeleteSource(context.Background(), domain.DefaultSourcePath)
	assert.ErrorIs(t, err, application.ErrReadOnlySource)
}

func TestStart_UsesLastSource(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetLastSource("data/02-tools.json"))

	res, err := f.ws.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "data/02-tools.json", res.Identifier)
}

func TestDefaultIcon(t *testing.T) {
	assert.Equal(t, "https://example.com/favicon.ico", DefaultIcon("https://example.com/a/b?c=d"))
	assert.Equal(t, "", DefaultIcon("example.com"))
}
