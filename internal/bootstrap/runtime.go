// Package bootstrap wires configuration, storage, the workspace and the
// sync orchestrator into a runtime shared by the navhub binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"navhub/internal/adapters/filesystem"
	"navhub/internal/adapters/github"
	"navhub/internal/adapters/memory"
	"navhub/internal/adapters/sqlite"
	"navhub/internal/adapters/web"
	"navhub/internal/application/registry"
	"navhub/internal/application/storage"
	"navhub/internal/application/syncer"
	"navhub/internal/application/workspace"
	"navhub/internal/assets"
	"navhub/internal/config"
	"navhub/internal/domain"
	"navhub/internal/logging"
	"navhub/internal/ports"
)

// flushTimeout bounds the final push on shutdown
const flushTimeout = 10 * time.Second

// Options controls how the runtime is opened
type Options struct {
	ConfigPath string
	// Verbosity overrides the configured level when positive
	Verbosity int
	// Console mirrors logs to stderr; the TUI leaves it off
	Console bool
	// Ephemeral keeps all state in memory for the life of the process
	Ephemeral bool
}

// Runtime holds the wired application
type Runtime struct {
	Config    *config.Config
	Store     *storage.Store
	Workspace *workspace.Workspace
	Sync      *syncer.Orchestrator
	// Engines is the web search engine list
	Engines domain.EngineCatalog

	closeDB func() error
	log     zerolog.Logger
}

// Open loads configuration, opens the state database and activates the
// last used source
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Verbosity > 0 {
		cfg.Verbosity = opts.Verbosity
	}
	logging.SetupLogger(logging.Options{
		Verbosity: cfg.Verbosity,
		File:      config.ExpandHome(cfg.LogFile),
		Console:   opts.Console,
	})
	log := logging.GetLogger("bootstrap")

	kv, closeDB, location, err := openState(cfg, opts.Ephemeral)
	if err != nil {
		return nil, err
	}
	store := storage.New(kv)

	fetcher, err := Fetcher(cfg)
	if err != nil {
		closeDB()
		return nil, err
	}

	ws := workspace.New(registry.New(domain.BuiltinSources, store), store, fetcher)
	sync := syncer.New(store, github.Dialer(github.Config{
		APIURL: cfg.Sync.APIURL,
		Branch: cfg.Sync.Branch,
	}), syncer.Config{
		Debounce:       cfg.Sync.Debounce,
		FilePath:       cfg.Sync.File,
		RepositoryName: cfg.Sync.Repository,
	})
	ws.SetListener(sync)

	res, err := ws.Start(ctx)
	if err != nil {
		sync.Close()
		closeDB()
		return nil, fmt.Errorf("failed to load a data source: %w", err)
	}
	if res.FallbackFrom != "" {
		log.Warn().Str("requested", res.FallbackFrom).Str("source", res.Identifier).Msg("last used source is gone")
	}
	log.Info().Str("source", res.Identifier).Bool("cached", res.FromCache).Str("state", location).Msg("runtime ready")

	return &Runtime{
		Config:    cfg,
		Store:     store,
		Workspace: ws,
		Sync:      sync,
		Engines:   Engines(cfg, log),
		closeDB:   closeDB,
		log:       log,
	}, nil
}

// openState opens the durable state database, or an in-memory store
func openState(cfg *config.Config, ephemeral bool) (ports.KeyValueStore, func() error, string, error) {
	if ephemeral {
		return memory.NewStore(), func() error { return nil }, "memory", nil
	}
	db, err := sqlite.Open(cfg.StatePath)
	if err != nil {
		return nil, nil, "", err
	}
	return db, db.Close, db.Path(), nil
}

// Engines loads the web search engine list from the data directory, falling
// back to the embedded copy. A list that cannot be loaded leaves web search empty.
func Engines(cfg *config.Config, log zerolog.Logger) domain.EngineCatalog {
	if cfg.DataDir != "" {
		catalog, err := assets.Engines(os.DirFS(cfg.DataDir))
		if err == nil {
			return catalog
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("dir", cfg.DataDir).Msg("ignoring engine list in data directory")
		}
	}
	catalog, err := assets.Engines(nil)
	if err != nil {
		log.Error().Err(err).Msg("embedded engine list is unreadable")
		return domain.EngineCatalog{}
	}
	return catalog
}

// Fetcher builds the built-in catalog fetcher: the data directory, then
// the data URL, then the embedded catalogs
func Fetcher(cfg *config.Config) (ports.SourceFetcher, error) {
	var chain filesystem.Chain
	if cfg.DataDir != "" {
		chain = append(chain, filesystem.NewDirFetcher(cfg.DataDir))
	}
	if cfg.DataURL != "" {
		f, err := web.NewFetcher(cfg.DataURL, nil)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}
	chain = append(chain, filesystem.NewFetcher(assets.Catalogs(), "embedded"))
	return chain, nil
}

// Resume reconnects a stored sync credential and reloads the active
// source when the pull changed local state. A rejected credential is
// logged, not fatal.
func (r *Runtime) Resume(ctx context.Context) {
	res, err := r.Sync.Resume(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("sync resume failed")
		return
	}
	if res == nil || !res.Found || len(res.Applied) == 0 {
		return
	}
	if _, err := r.Workspace.Refresh(ctx, true); err != nil {
		r.log.Warn().Err(err).Msg("reload after pull failed")
	}
}

// Watch reloads the active source when a catalog in the data directory
// changes. It returns nil when no data directory is configured.
func (r *Runtime) Watch(onReload func(sourcePath string)) (*filesystem.Watcher, error) {
	if r.Config.DataDir == "" {
		return nil, nil
	}
	root := filepath.Clean(config.ExpandHome(r.Config.DataDir))
	w, err := filesystem.NewWatcher(root, func(sourcePath string) {
		if r.Workspace.Current() != sourcePath {
			return
		}
		if _, err := r.Workspace.Refresh(context.Background(), false); err != nil {
			r.log.Warn().Err(err).Str("source", sourcePath).Msg("reload after change failed")
			return
		}
		if onReload != nil {
			onReload(sourcePath)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// Close pushes any pending change and releases the database
func (r *Runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	var errs []error
	if err := r.Sync.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("final push: %w", err))
	}
	r.Sync.Close()
	if err := r.closeDB(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
