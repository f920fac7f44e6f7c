// Package syncer keeps local state consistent with a JSON file in the
// user's remote repository.
//
// Local saves are coalesced by a debounce timer into a single push. A pull
// applies the remote payload field by field. Conflicts are detected through
// the remote version token and reported as SyncError; they are never merged
// or retried automatically.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"navhub/internal/application"
	"navhub/internal/application/storage"
	"navhub/internal/domain"
	"navhub/internal/logging"
	"navhub/internal/ports"
)

// Config holds configuration for the orchestrator.
type Config struct {
	// Debounce is how long to wait after the last local save before pushing.
	// Rapid edits are coalesced into one remote write.
	Debounce time.Duration

	// FilePath is the file inside the repository holding the sync payload
	FilePath string

	// RepositoryName is the bare name of the private repository created on bind
	RepositoryName string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:       2 * time.Second,
		FilePath:       "navhub-data.json",
		RepositoryName: "navhub-data",
	}
}

// PullResult reports what a pull changed locally
type PullResult struct {
	// Found is false when the remote file does not exist yet
	Found   bool
	Applied []string
}

// Orchestrator owns the sync state machine
type Orchestrator struct {
	store *storage.Store
	dial  ports.RemoteDialer
	cfg   Config
	log   zerolog.Logger

	mu     sync.Mutex
	state  domain.SyncState
	remote ports.RemoteStore
	timer  *time.Timer
	// armed identifies the current timer; callbacks of older timers are no-ops
	armed uint64
	// generation changes on bind and logout; results of calls started
	// under an older generation are dropped
	generation uint64
	closed     bool
	subs       map[int]func(domain.SyncState)
	nextSub    int

	// opMu serializes remote round trips
	opMu sync.Mutex
}

// New creates a disconnected orchestrator
func New(store *storage.Store, dial ports.RemoteDialer, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.FilePath == "" {
		cfg.FilePath = def.FilePath
	}
	if cfg.RepositoryName == "" {
		cfg.RepositoryName = def.RepositoryName
	}
	return &Orchestrator{
		store: store,
		dial:  dial,
		cfg:   cfg,
		log:   logging.GetLogger("syncer"),
		state: domain.SyncState{Status: domain.SyncDisconnected},
		subs:  make(map[int]func(domain.SyncState)),
	}
}

// Subscribe registers fn to receive every state change. The returned
// function removes the subscription.
func (o *Orchestrator) Subscribe(fn func(domain.SyncState)) func() {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// State returns a snapshot of the sync state
func (o *Orchestrator) State() domain.SyncState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// setLocked updates the state through fn and returns the subscribers to notify.
// Callers must hold o.mu and call emit after unlocking.
func (o *Orchestrator) setLocked(fn func(*domain.SyncState)) (domain.SyncState, []func(domain.SyncState)) {
	fn(&o.state)
	subs := make([]func(domain.SyncState), 0, len(o.subs))
	for _, s := range o.subs {
		subs = append(subs, s)
	}
	return o.state, subs
}

func emit(state domain.SyncState, subs []func(domain.SyncState)) {
	for _, fn := range subs {
		fn(state)
	}
}

func (o *Orchestrator) set(fn func(*domain.SyncState)) {
	o.mu.Lock()
	state, subs := o.setLocked(fn)
	o.mu.Unlock()
	emit(state, subs)
}

// Bind verifies credential, ensures the sync repository exists, stores the
// credential and pulls the remote payload.
func (o *Orchestrator) Bind(ctx context.Context, credential string) (domain.UserIdentity, *PullResult, error) {
	credential = strings.TrimSpace(credential)
	if err := application.ValidateRequired("credential", credential); err != nil {
		return domain.UserIdentity{}, nil, err
	}

	probe := o.dial(credential, "")
	identity, err := probe.VerifyIdentity(ctx)
	if err != nil {
		return domain.UserIdentity{}, nil, fmt.Errorf("failed to verify credential: %w", err)
	}

	created, err := probe.EnsureRepository(ctx, o.cfg.RepositoryName)
	if err != nil {
		return identity, nil, fmt.Errorf("failed to prepare repository: %w", err)
	}
	repo := identity.Login + "/" + o.cfg.RepositoryName
	if created {
		o.log.Info().Str("repository", repo).Msg("created sync repository")
	}

	if err := o.store.SetCredential(credential, repo); err != nil {
		return identity, nil, err
	}

	o.connect(credential, repo, identity)
	res, err := o.Pull(ctx)
	return identity, res, err
}

// Resume restores a stored credential at startup. It is a no-op when no
// credential is stored.
func (o *Orchestrator) Resume(ctx context.Context) (*PullResult, error) {
	credential, repo, ok := o.store.Credential()
	if !ok || repo == "" {
		return nil, nil
	}

	remote := o.dial(credential, repo)
	identity, err := remote.VerifyIdentity(ctx)
	if err != nil {
		o.log.Warn().Err(err).Str("repository", repo).Msg("stored credential rejected")
		return nil, fmt.Errorf("failed to verify stored credential: %w", err)
	}

	o.connect(credential, repo, identity)
	return o.Pull(ctx)
}

func (o *Orchestrator) connect(credential, repo string, identity domain.UserIdentity) {
	remote := o.dial(credential, repo)
	o.mu.Lock()
	o.stopTimerLocked()
	o.generation++
	o.remote = remote
	state, subs := o.setLocked(func(s *domain.SyncState) {
		*s = domain.SyncState{
			Credential: credential,
			Identity:   identity.Login,
			Repository: repo,
			Status:     domain.SyncIdle,
		}
	})
	o.mu.Unlock()
	emit(state, subs)
	o.log.Info().Str("login", identity.Login).Str("repository", repo).Msg("sync connected")
}

// Logout forgets the credential and resets the state. Calls already in
// flight complete but their results are ignored.
func (o *Orchestrator) Logout() error {
	o.mu.Lock()
	o.stopTimerLocked()
	o.generation++
	o.remote = nil
	state, subs := o.setLocked(func(s *domain.SyncState) {
		*s = domain.SyncState{Status: domain.SyncDisconnected}
	})
	o.mu.Unlock()
	emit(state, subs)

	if err := o.store.ClearCredential(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	o.log.Info().Msg("sync disconnected")
	return nil
}

// NotifySaved schedules a debounced push. Each call resets the timer.
func (o *Orchestrator) NotifySaved() {
	o.mu.Lock()
	if o.closed || o.remote == nil {
		o.mu.Unlock()
		return
	}
	o.stopTimerLocked()
	gen, seq := o.generation, o.armed
	o.timer = time.AfterFunc(o.cfg.Debounce, func() {
		o.fire(gen, seq)
	})
	state, subs := o.setLocked(func(s *domain.SyncState) {
		if !s.IsSyncing {
			s.Status = domain.SyncPending
		}
	})
	o.mu.Unlock()
	emit(state, subs)
}

// fire runs the debounced push. A callback whose timer was stopped or
// replaced while it was starting does nothing; the newer timer owns the push.
func (o *Orchestrator) fire(gen, seq uint64) {
	o.mu.Lock()
	if seq != o.armed {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	stale := o.closed || gen != o.generation || o.remote == nil
	o.mu.Unlock()
	if stale {
		return
	}
	if err := o.push(context.Background(), gen); err != nil {
		o.log.Warn().Err(err).Msg("background push failed")
	}
}

func (o *Orchestrator) stopTimerLocked() {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.armed++
}

// Push writes the aggregated payload now, cancelling any pending debounce
func (o *Orchestrator) Push(ctx context.Context) error {
	o.mu.Lock()
	if o.remote == nil {
		o.mu.Unlock()
		return application.ErrNotConnected
	}
	o.stopTimerLocked()
	gen := o.generation
	o.mu.Unlock()
	return o.push(ctx, gen)
}

func (o *Orchestrator) begin(gen uint64) (ports.RemoteStore, string, bool) {
	o.mu.Lock()
	if gen != o.generation || o.remote == nil {
		o.mu.Unlock()
		return nil, "", false
	}
	remote, token := o.remote, o.state.VersionToken
	state, subs := o.setLocked(func(s *domain.SyncState) {
		s.IsSyncing = true
		s.Status = domain.SyncSyncing
	})
	o.mu.Unlock()
	emit(state, subs)
	return remote, token, true
}

// finish records the outcome unless the generation moved on. It reports
// whether the result was applied.
func (o *Orchestrator) finish(gen uint64, err error, apply func(*domain.SyncState)) bool {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.log.Debug().Msg("dropping result of a call started before logout")
		return false
	}
	state, subs := o.setLocked(func(s *domain.SyncState) {
		s.IsSyncing = false
		if err != nil {
			s.Status = domain.SyncError
			s.LastError = err.Error()
			return
		}
		if apply != nil {
			apply(s)
		}
		s.Status = domain.SyncSuccess
		if o.timer != nil {
			// a save arrived while the call was in flight
			s.Status = domain.SyncPending
		}
		s.LastError = ""
		s.LastSyncTime = time.Now()
	})
	o.mu.Unlock()
	emit(state, subs)
	return true
}

func (o *Orchestrator) push(ctx context.Context, gen uint64) error {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	remote, token, ok := o.begin(gen)
	if !ok {
		return application.ErrNotConnected
	}
	done := logging.LogOperationStart(o.log, "push")
	defer done()

	if token == "" {
		file, err := remote.ReadFile(ctx, o.cfg.FilePath)
		if err != nil && !errors.Is(err, application.ErrNotFound) {
			o.finish(gen, err, nil)
			return fmt.Errorf("push failed: %w", err)
		}
		if file != nil {
			token = file.VersionToken
		}
	}

	data, err := json.MarshalIndent(o.Payload(), "", "  ")
	if err != nil {
		o.finish(gen, err, nil)
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	newToken, err := remote.WriteFile(ctx, o.cfg.FilePath, data, token)
	if err != nil {
		if errors.Is(err, application.ErrConflict) {
			o.log.Warn().Msg("remote changed since last sync, pull before pushing again")
		}
		o.finish(gen, err, nil)
		return fmt.Errorf("push failed: %w", err)
	}

	if !o.finish(gen, nil, func(s *domain.SyncState) { s.VersionToken = newToken }) {
		return application.ErrNotConnected
	}
	o.log.Info().Int("bytes", len(data)).Msg("pushed sync payload")
	return nil
}

// Payload builds the aggregated document from local storage
func (o *Orchestrator) Payload() domain.SyncPayload {
	prefs := o.store.Preferences()
	personal := o.store.Personal()
	custom := o.store.CustomSources()
	return domain.SyncPayload{
		UpdatedAt:        time.Now().UTC(),
		Preferences:      &prefs,
		PersonalCategory: &personal,
		CustomSources:    custom,
	}
}

// Pull reads the remote payload and applies each present field to local storage
func (o *Orchestrator) Pull(ctx context.Context) (*PullResult, error) {
	o.opMu.Lock()
	defer o.opMu.Unlock()

	o.mu.Lock()
	gen := o.generation
	o.mu.Unlock()

	remote, _, ok := o.begin(gen)
	if !ok {
		return nil, application.ErrNotConnected
	}
	done := logging.LogOperationStart(o.log, "pull")
	defer done()

	file, err := remote.ReadFile(ctx, o.cfg.FilePath)
	if err != nil {
		o.finish(gen, err, nil)
		return nil, fmt.Errorf("pull failed: %w", err)
	}
	if file == nil {
		if !o.finish(gen, nil, nil) {
			return nil, application.ErrNotConnected
		}
		o.log.Info().Msg("no remote data yet")
		return &PullResult{Found: false}, nil
	}

	var payload domain.SyncPayload
	if err := json.Unmarshal(file.Content, &payload); err != nil {
		err = fmt.Errorf("remote payload: %v: %w", err, application.ErrDecode)
		o.finish(gen, err, nil)
		return nil, err
	}

	// holding mu across the write keeps a concurrent logout from
	// interleaving; a logout that already happened discards the result
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return nil, application.ErrNotConnected
	}
	applied, err := o.store.ApplyRemote(payload)
	o.mu.Unlock()
	if err != nil {
		o.finish(gen, err, nil)
		return nil, fmt.Errorf("failed to apply remote payload: %w", err)
	}
	res := &PullResult{Found: true, Applied: applied}

	token := file.VersionToken
	o.finish(gen, nil, func(s *domain.SyncState) { s.VersionToken = token })
	o.log.Info().Strs("applied", res.Applied).Msg("pulled sync payload")
	return res, nil
}

// Close stops the debounce timer. Pending pushes are dropped.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.stopTimerLocked()
}

// Flush pushes immediately if a debounced push is pending
func (o *Orchestrator) Flush(ctx context.Context) error {
	o.mu.Lock()
	pending := o.timer != nil
	o.mu.Unlock()
	if !pending {
		return nil
	}
	return o.Push(ctx)
}
