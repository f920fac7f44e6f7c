// Package registry enumerates built-in and custom data sources and merges
// them into one addressable list.
//
// The registry owns the in-memory source table. Every read returns a deep
// copy and every write goes through its methods, so documents handed out
// never alias the table.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"navhub/internal/application"
	"navhub/internal/application/storage"
	"navhub/internal/domain"
)

// Registry is the Source Registry
type Registry struct {
	mu       sync.RWMutex
	builtins []domain.DataSource
	custom   []domain.DataSource
	store    *storage.Store
}

// New creates a registry over the given built-ins and loads custom sources from store
func New(builtins []domain.DataSource, store *storage.Store) *Registry {
	r := &Registry{store: store}
	r.builtins = make([]domain.DataSource, len(builtins))
	for i, b := range builtins {
		r.builtins[i] = domain.DataSource{Name: b.Name, Path: b.Path}
	}
	r.Reload()
	return r
}

// Reload re-reads the custom sources from the persistent store
func (r *Registry) Reload() {
	custom := r.store.CustomSources()
	r.mu.Lock()
	r.custom = custom
	r.mu.Unlock()
}

// List returns built-ins followed by custom sources
func (r *Registry) List() []domain.DataSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.DataSource, 0, len(r.builtins)+len(r.custom))
	for _, s := range r.builtins {
		out = append(out, s.Clone())
	}
	for _, s := range r.custom {
		out = append(out, s.Clone())
	}
	return out
}

// Resolve looks up a source by path first, then by name
func (r *Registry) Resolve(id string) (domain.DataSource, bool) {
	if id == "" {
		return domain.DataSource{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.all()
	for _, s := range all {
		if s.Path != "" && s.Path == id {
			return s.Clone(), true
		}
	}
	for _, s := range all {
		if s.Name == id {
			return s.Clone(), true
		}
	}
	return domain.DataSource{}, false
}

func (r *Registry) all() []domain.DataSource {
	all := make([]domain.DataSource, 0, len(r.builtins)+len(r.custom))
	all = append(all, r.builtins...)
	return append(all, r.custom...)
}

// taken reports whether name collides with any source name or key
func (r *Registry) taken(name string) bool {
	for _, s := range r.all() {
		if strings.EqualFold(s.Name, name) || s.Key() == name {
			return true
		}
	}
	return false
}

// Taken reports whether name is already used by a source
func (r *Registry) Taken(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.taken(name)
}

// AddCustom appends a custom source and persists the list
func (r *Registry) AddCustom(name string, doc domain.NavDocument) (domain.DataSource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.DataSource{}, &application.ValidationError{Field: "sourceName", Message: "source name is required"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(name) {
		return domain.DataSource{}, &application.ValidationError{
			Field:   "sourceName",
			Message: fmt.Sprintf("a source named %q already exists", name),
		}
	}

	doc = doc.Clone()
	doc.Normalize()
	src := domain.DataSource{Name: name, Data: &doc}
	next := append(cloneAll(r.custom), src)
	if err := r.store.SetCustomSources(next); err != nil {
		return domain.DataSource{}, err
	}
	r.custom = next
	return src.Clone(), nil
}

// UpdateCustom replaces the embedded document of a custom source and persists the list
func (r *Registry) UpdateCustom(name string, doc domain.NavDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.customIndex(name)
	if idx < 0 {
		return r.missing(name)
	}

	doc = doc.Clone()
	next := cloneAll(r.custom)
	next[idx].Data = &doc
	if err := r.store.SetCustomSources(next); err != nil {
		return err
	}
	r.custom = next
	return nil
}

// DeleteCustom removes a custom source and persists the list
func (r *Registry) DeleteCustom(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.customIndex(name)
	if idx < 0 {
		return r.missing(name)
	}

	next := cloneAll(r.custom)
	next = append(next[:idx], next[idx+1:]...)
	if err := r.store.SetCustomSources(next); err != nil {
		return err
	}
	r.custom = next
	return nil
}

func (r *Registry) customIndex(name string) int {
	for i, s := range r.custom {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) missing(name string) error {
	for _, b := range r.builtins {
		if b.Path == name || b.Name == name {
			return fmt.Errorf("%s: %w", name, application.ErrReadOnlySource)
		}
	}
	return fmt.Errorf("source %q: %w", name, application.ErrUnknownSource)
}

func cloneAll(list []domain.DataSource) []domain.DataSource {
	out := make([]domain.DataSource, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}
