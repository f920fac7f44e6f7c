// Package storage maps the application's persistent state onto the
// canonical keys of a device-local KeyValueStore.
//
// Reads fail soft: a missing or undecodable value degrades to the empty or
// default value and is logged, never returned as an error.
package storage

import (
	"encoding/json"
	"fmt"

	"navhub/internal/domain"
	"navhub/internal/logging"
	"navhub/internal/ports"
)

// Canonical keys of the durable store
const (
	KeyTheme         = "theme-preference"
	KeyProxyDisplay  = "proxy-display-preference"
	KeyBaseCache     = "my-awesome-nav-data"
	KeyPersonal      = "nav-user-custom-sites-data"
	KeyCustomSources = "nav-custom-data-sources"
	KeyLastSource    = "nav-data-source-preference"
	KeyRemoteToken   = "navhub-remote-token"
	KeyRemoteRepo    = "navhub-remote-repo"
)

// DefaultTheme is used when no theme has been stored
const DefaultTheme = "light"

const themeDark = "dark"

// Store is the Persistent Store Adapter
type Store struct {
	kv ports.KeyValueStore
}

// New wraps a KeyValueStore
func New(kv ports.KeyValueStore) *Store {
	return &Store{kv: kv}
}

func (s *Store) get(key string) (string, bool) {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		log := logging.GetLogger("storage")
		log.Warn().Err(err).Str("key", key).Msg("store read failed, using default")
		return "", false
	}
	return v, ok
}

func (s *Store) decode(key string, dst any) bool {
	raw, ok := s.get(key)
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log := logging.GetLogger("storage")
		log.Warn().Err(err).Str("key", key).Msg("undecodable stored value, using default")
		return false
	}
	return true
}

func (s *Store) encode(key string, v any) error {
	return encodeTo(s.kv, key, v)
}

func encodeTo(w writer, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := w.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// CachedBase returns the cached base document of the default built-in source
func (s *Store) CachedBase() (domain.NavDocument, bool) {
	var doc domain.NavDocument
	if !s.decode(KeyBaseCache, &doc) || doc.Categories == nil {
		return domain.NavDocument{}, false
	}
	doc.Normalize()
	return doc, true
}

// SetCachedBase stores the base document of the default built-in source.
// Any personal category is stripped before writing.
func (s *Store) SetCachedBase(doc domain.NavDocument) error {
	return s.encode(KeyBaseCache, doc.WithoutPersonal())
}

// Personal returns the stored personal category, or a fresh empty one
func (s *Store) Personal() domain.Category {
	var c domain.Category
	if !s.decode(KeyPersonal, &c) {
		return domain.NewPersonalCategory()
	}
	c.ID = domain.PersonalCategoryID
	if c.Name == "" {
		c.Name = domain.PersonalCategoryName
	}
	if c.Sites == nil {
		c.Sites = []domain.Site{}
	}
	return c
}

// SetPersonal stores the personal category under its dedicated key
func (s *Store) SetPersonal(c domain.Category) error {
	return s.encode(KeyPersonal, personalForStorage(c))
}

func personalForStorage(c domain.Category) domain.Category {
	c = c.Clone()
	c.ID = domain.PersonalCategoryID
	return c
}

// CustomSources returns the stored custom sources, or an empty list
func (s *Store) CustomSources() []domain.DataSource {
	var list []domain.DataSource
	if !s.decode(KeyCustomSources, &list) {
		return []domain.DataSource{}
	}
	out := make([]domain.DataSource, 0, len(list))
	for _, src := range list {
		if src.Name == "" {
			continue
		}
		src.Path = ""
		if src.Data == nil {
			src.Data = &domain.NavDocument{}
		}
		src.Data.Normalize()
		out = append(out, src)
	}
	return out
}

// SetCustomSources replaces the stored custom source list
func (s *Store) SetCustomSources(list []domain.DataSource) error {
	return s.encode(KeyCustomSources, customForStorage(list))
}

func customForStorage(list []domain.DataSource) []domain.DataSource {
	out := make([]domain.DataSource, len(list))
	for i, src := range list {
		out[i] = src.Clone()
		out[i].Path = ""
	}
	return out
}

// LastSource returns the last used source identifier
func (s *Store) LastSource() (string, bool) {
	v, ok := s.get(KeyLastSource)
	return v, ok && v != ""
}

// SetLastSource records the last used source identifier
func (s *Store) SetLastSource(id string) error {
	if err := s.kv.Set(KeyLastSource, id); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyLastSource, err)
	}
	return nil
}

// Theme returns the stored theme preference ("light" or "dark")
func (s *Store) Theme() string {
	v, ok := s.get(KeyTheme)
	if !ok || v != themeDark {
		return DefaultTheme
	}
	return v
}

// SetTheme stores the theme preference
func (s *Store) SetTheme(theme string) error {
	return s.kv.Set(KeyTheme, normalizeTheme(theme))
}

func normalizeTheme(theme string) string {
	if theme != themeDark {
		return DefaultTheme
	}
	return theme
}

// ProxyDisplay reports whether proxy-only sites are shown. Defaults to true.
func (s *Store) ProxyDisplay() bool {
	v, ok := s.get(KeyProxyDisplay)
	return !ok || v != "false"
}

// SetProxyDisplay stores the proxy-display preference
func (s *Store) SetProxyDisplay(show bool) error {
	return s.kv.Set(KeyProxyDisplay, fmt.Sprintf("%t", show))
}

// Preferences returns the preferences carried in the sync payload
func (s *Store) Preferences() domain.Preferences {
	show := s.ProxyDisplay()
	return domain.Preferences{Theme: s.Theme(), ProxyDisplay: &show}
}

// ApplyRemote writes the present fields of a pulled payload together, in one
// transaction when the backing store supports one. It returns the names of
// the applied fields.
func (s *Store) ApplyRemote(p domain.SyncPayload) ([]string, error) {
	var applied []string
	err := s.batch(func(w writer) error {
		applied = applied[:0]
		if p.PersonalCategory != nil {
			if err := encodeTo(w, KeyPersonal, personalForStorage(*p.PersonalCategory)); err != nil {
				return err
			}
			applied = append(applied, "personalCategory")
		}
		if p.CustomSources != nil {
			if err := encodeTo(w, KeyCustomSources, customForStorage(p.CustomSources)); err != nil {
				return err
			}
			applied = append(applied, "customSources")
		}
		if p.Preferences != nil {
			if p.Preferences.Theme != "" {
				if err := w.Set(KeyTheme, normalizeTheme(p.Preferences.Theme)); err != nil {
					return fmt.Errorf("failed to write %s: %w", KeyTheme, err)
				}
			}
			if p.Preferences.ProxyDisplay != nil {
				if err := w.Set(KeyProxyDisplay, fmt.Sprintf("%t", *p.Preferences.ProxyDisplay)); err != nil {
					return fmt.Errorf("failed to write %s: %w", KeyProxyDisplay, err)
				}
			}
			applied = append(applied, "preferences")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// Credential returns the stored remote credential and repository
func (s *Store) Credential() (token, repo string, ok bool) {
	token, tokOK := s.get(KeyRemoteToken)
	repo, _ = s.get(KeyRemoteRepo)
	return token, repo, tokOK && token != ""
}

// SetCredential stores the remote credential and repository ("owner/name")
func (s *Store) SetCredential(token, repo string) error {
	return s.batch(func(w writer) error {
		if err := w.Set(KeyRemoteToken, token); err != nil {
			return fmt.Errorf("failed to write %s: %w", KeyRemoteToken, err)
		}
		if err := w.Set(KeyRemoteRepo, repo); err != nil {
			return fmt.Errorf("failed to write %s: %w", KeyRemoteRepo, err)
		}
		return nil
	})
}

// ClearCredential removes the remote credential and repository
func (s *Store) ClearCredential() error {
	return s.batch(func(w writer) error {
		if err := w.Delete(KeyRemoteToken); err != nil {
			return err
		}
		return w.Delete(KeyRemoteRepo)
	})
}

type writer interface {
	Set(key, value string) error
	Delete(key string) error
}

// batch runs fn inside a transaction when the backing store supports one
func (s *Store) batch(fn func(w writer) error) error {
	txs, ok := s.kv.(ports.TxStore)
	if !ok {
		return fn(s.kv)
	}
	tx, err := txs.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
