package memory

import (
	"errors"
	"sync"

	"navhub/internal/ports"
)

// Verify interface compliance at compile time
var _ ports.TxStore = (*Store)(nil)

var errTxDone = errors.New("transaction already finished")

// Store is a KeyValueStore kept in process memory
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// BeginTx starts a transaction whose writes land together on Commit
func (s *Store) BeginTx() (ports.KeyValueTx, error) {
	return &tx{store: s}, nil
}

type op struct {
	key    string
	value  string
	delete bool
}

type tx struct {
	store *Store
	ops   []op
	done  bool
}

func (t *tx) Set(key, value string) error {
	if t.done {
		return errTxDone
	}
	t.ops = append(t.ops, op{key: key, value: value})
	return nil
}

func (t *tx) Delete(key string) error {
	if t.done {
		return errTxDone
	}
	t.ops = append(t.ops, op{key: key, delete: true})
	return nil
}

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, o := range t.ops {
		if o.delete {
			delete(t.store.data, o.key)
			continue
		}
		t.store.data[o.key] = o.value
	}
	return nil
}

func (t *tx) Rollback() error {
	t.done = true
	t.ops = nil
	return nil
}

// Snapshot returns a copy of every stored entry
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
