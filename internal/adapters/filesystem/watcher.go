package filesystem

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"navhub/internal/logging"
)

// DefaultSettle is how long the watcher waits for a burst of writes to end
const DefaultSettle = 250 * time.Millisecond

// Watcher reports catalog files that change inside a data directory.
// Editors write files in several steps, so events are coalesced per file
// until the directory has been quiet for Settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	onChange func(sourcePath string)
	log      zerolog.Logger

	// Settle is the quiet period before onChange fires
	Settle time.Duration

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewWatcher creates a watcher over root. onChange receives source paths
// relative to root with forward slashes, e.g. "data/02-tools.json".
func NewWatcher(root string, onChange func(sourcePath string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		watcher:  w,
		root:     root,
		onChange: onChange,
		log:      logging.GetLogger("watcher"),
		Settle:   DefaultSettle,
		pending:  make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// Start watches root/data for JSON changes
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Join(w.root, "data")
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops watching and waits for the event loop to exit.
// Pending notifications are dropped.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if rel, ok := w.sourcePath(event); ok {
				w.queue(rel)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// sourcePath maps an event to a source path, ignoring non-catalog files
func (w *Watcher) sourcePath(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
		return "", false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) queue(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.pending[rel] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Settle, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	for _, p := range changed {
		w.log.Debug().Str("source", p).Msg("catalog changed on disk")
		w.onChange(p)
	}
}
