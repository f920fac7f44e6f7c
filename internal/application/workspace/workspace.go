// Package workspace holds the active document: it resolves a requested
// source into the effective category list, persists edits and notifies
// the sync orchestrator after every local save.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"navhub/internal/application"
	"navhub/internal/application/registry"
	"navhub/internal/application/storage"
	"navhub/internal/domain"
	"navhub/internal/logging"
	"navhub/internal/ports"
)

// SaveListener is told about every successful local save
type SaveListener interface {
	NotifySaved()
}

// SwitchResult describes a completed source switch
type SwitchResult struct {
	// Identifier is the resolved key that is now active
	Identifier string
	Source     domain.DataSource
	// FallbackFrom is the requested identifier when it did not resolve
	// and the default source was substituted
	FallbackFrom string
	FromCache    bool
}

// Workspace is the Source Switch Engine plus the save routine.
// Switches and mutations are serialized; the active document is only
// replaced once a switch has fully succeeded.
type Workspace struct {
	mu       sync.Mutex
	registry *registry.Registry
	store    *storage.Store
	fetcher  ports.SourceFetcher
	listener SaveListener
	log      zerolog.Logger

	current string
	doc     domain.NavDocument
}

// New creates a workspace with an empty active document
func New(reg *registry.Registry, store *storage.Store, fetcher ports.SourceFetcher) *Workspace {
	return &Workspace{
		registry: reg,
		store:    store,
		fetcher:  fetcher,
		log:      logging.GetLogger("workspace"),
		doc:      domain.NavDocument{Categories: []domain.Category{domain.NewPersonalCategory()}},
	}
}

// SetListener registers the component notified after each save
func (w *Workspace) SetListener(l SaveListener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listener = l
}

// Registry returns the source registry backing the workspace
func (w *Workspace) Registry() *registry.Registry {
	return w.registry
}

// Current returns the identifier of the active source
func (w *Workspace) Current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Document returns a copy of the active document
func (w *Workspace) Document() domain.NavDocument {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.Clone()
}

// Start switches to the last used source, or the default one, allowing the cache
func (w *Workspace) Start(ctx context.Context) (*SwitchResult, error) {
	id, ok := w.store.LastSource()
	if !ok {
		id = domain.DefaultSourcePath
	}
	res, err := w.SwitchTo(ctx, id, true)
	if err != nil && id != domain.DefaultSourcePath {
		w.log.Warn().Err(err).Str("source", id).Msg("last used source failed, loading default")
		return w.SwitchTo(ctx, domain.DefaultSourcePath, true)
	}
	return res, err
}

// SwitchTo makes the source identified by id the active one.
//
// An unknown id falls back to the default source. On failure a
// *application.SwitchError is returned and the active document and
// identifier are left untouched.
func (w *Workspace) SwitchTo(ctx context.Context, id string, allowCache bool) (*SwitchResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.switchLocked(ctx, id, allowCache)
}

func (w *Workspace) switchLocked(ctx context.Context, id string, allowCache bool) (*SwitchResult, error) {
	done := logging.LogOperationStart(w.log, "switch")
	defer done()

	res := &SwitchResult{}
	src, ok := w.registry.Resolve(id)
	if !ok {
		w.log.Warn().Str("requested", id).Str("fallback", domain.DefaultSourcePath).Msg("source not found, using default")
		res.FallbackFrom = id
		src, ok = w.registry.Resolve(domain.DefaultSourcePath)
		if !ok {
			return nil, &application.SwitchError{Source: id, Err: application.ErrUnknownSource}
		}
	}

	var base domain.NavDocument
	haveBase := false
	if allowCache && src.IsDefault() {
		if cached, ok := w.store.CachedBase(); ok {
			base, haveBase = cached, true
			res.FromCache = true
		}
	}

	if !haveBase {
		if src.IsBuiltin() {
			fetched, err := w.fetcher.Fetch(ctx, src.Path)
			if err != nil {
				return nil, &application.SwitchError{Source: src.Name, Err: err}
			}
			base = fetched
		} else {
			base = src.Document()
		}
	}

	var merged domain.NavDocument
	if src.IsBuiltin() {
		merged = base.WithPersonalFirst(w.store.Personal())
	} else {
		merged = base.Clone()
	}
	merged.EnsurePersonal()

	w.doc = merged.Clone()
	w.current = src.Key()
	res.Identifier = src.Key()
	res.Source = domain.DataSource{Name: src.Name, Path: src.Path}

	if err := w.store.SetLastSource(res.Identifier); err != nil {
		w.log.Warn().Err(err).Msg("failed to store last used source")
	}

	w.log.Info().Str("source", res.Identifier).Bool("cache", res.FromCache).Int("sites", merged.SiteCount()).Msg("switched source")
	return res, nil
}

// Refresh re-resolves the active source. Used after a pull or when the
// built-in catalogs change on disk.
func (w *Workspace) Refresh(ctx context.Context, allowCache bool) (*SwitchResult, error) {
	w.registry.Reload()
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.current
	if id == "" {
		id = domain.DefaultSourcePath
	}
	return w.switchLocked(ctx, id, allowCache)
}

// Save persists the active document and notifies the listener
func (w *Workspace) Save() error {
	w.mu.Lock()
	err := w.saveLocked()
	listener := w.listener
	w.mu.Unlock()

	if err == nil && listener != nil {
		listener.NotifySaved()
	}
	return err
}

func (w *Workspace) saveLocked() error {
	src, ok := w.registry.Resolve(w.current)
	if !ok {
		w.log.Warn().Str("source", w.current).Msg("save: active source not found")
		return fmt.Errorf("save %q: %w", w.current, application.ErrUnknownSource)
	}

	if !src.IsBuiltin() {
		return w.registry.UpdateCustom(src.Name, w.doc.PruneEmpty())
	}

	if p, ok := w.doc.Personal(); ok {
		if err := w.store.SetPersonal(p); err != nil {
			return err
		}
	}
	// a single cache slot cannot tell built-ins apart, so only the default is cached
	if w.current == domain.DefaultSourcePath {
		if err := w.store.SetCachedBase(w.doc.WithoutPersonal()); err != nil {
			return err
		}
	}
	return nil
}

// mutate applies fn to a working copy and, on success, installs and saves it
func (w *Workspace) mutate(fn func(doc *domain.NavDocument) error) error {
	w.mu.Lock()
	working := w.doc.Clone()
	if err := fn(&working); err != nil {
		w.mu.Unlock()
		return err
	}
	working.EnsurePersonal()
	w.doc = working
	err := w.saveLocked()
	listener := w.listener
	w.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	if listener != nil {
		listener.NotifySaved()
	}
	return nil
}
