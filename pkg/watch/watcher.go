// Package watch re-runs an analysis when suite or resource files change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/kwgraph/internal/scanner"
	"github.com/panbanda/kwgraph/pkg/config"
	"github.com/panbanda/kwgraph/pkg/index"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period a file must stay unchanged before it
// triggers a run.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc receives the files whose content changed since the last run,
// sorted by path.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher monitors a project tree and reports content changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	scanner   *scanner.Scanner
	logger    *zap.Logger
	root      string
	debounce  time.Duration
	callback  ChangeFunc

	mu      sync.Mutex
	pending map[string]time.Time
	digests map[string]string
}

// NewWatcher creates a watcher for the tree under root.
func NewWatcher(root string, cfg *config.Config, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		scanner:   scanner.NewScanner(cfg),
		logger:    logger,
		root:      root,
		debounce:  debounce,
		pending:   make(map[string]time.Time),
		digests:   make(map[string]string),
	}, nil
}

// SetCallback sets the function to call when files change.
func (w *Watcher) SetCallback(cb ChangeFunc) {
	w.callback = cb
}

// Start adds every non-excluded directory below root, records the current
// digest of each tracked file and then processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && w.config.ShouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		if w.tracked(path) {
			if digest, ok := digestFile(path); ok {
				w.mu.Lock()
				w.digests[path] = digest
				w.mu.Unlock()
			}
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.config.ShouldExcludeDir(info.Name()) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("watch directory", zap.String("path", path), zap.Error(err))
				}
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	_, seen := w.digests[path]
	w.mu.Unlock()
	// A removed file can no longer be scanned; it matters only if it was indexed.
	if !seen && !w.tracked(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// tracked reports whether the index would read path, honouring extensions,
// excluded directories, exclude patterns and .gitignore.
func (w *Watcher) tracked(path string) bool {
	ok, err := w.scanner.ScanFile(w.root, path)
	return err == nil && ok
}

func (w *Watcher) processDebounced(ctx context.Context) {
	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if changed := w.takeReady(time.Now()); len(changed) > 0 && w.callback != nil {
				w.callback(ctx, changed)
			}
		}
	}
}

// takeReady removes files quiet for the debounce period from the pending
// set and returns those whose digest differs from the last one seen. A
// deleted file counts as changed once.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var changed []string
	for path, last := range w.pending {
		if now.Sub(last) < w.debounce {
			continue
		}
		delete(w.pending, path)

		digest, ok := digestFile(path)
		prev, seen := w.digests[path]
		switch {
		case !ok && seen:
			delete(w.digests, path)
			changed = append(changed, path)
		case ok && digest != prev:
			w.digests[path] = digest
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)
	return changed
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the watched directories.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}

func digestFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return index.HashBytes(data), true
}
