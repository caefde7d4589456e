// # internal/watcher/watcher.go
package watcher

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"symscan/internal/core/errors"
	"symscan/internal/parser"
	"symscan/internal/shared/observability"
	"symscan/internal/shared/util"
)

// Rescan rate cap under event storms.
const (
	rescansPerSecond = 1.0
	rescanBurst      = 2
)

// Watcher tracks configured roots recursively and batches change events.
// After a quiet period of debounce, the batch is handed to onChange as a
// list of paths. The callback runs serially.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debounce     time.Duration
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	onChange     func([]string)
	callbackMu   sync.Mutex
	limiter      *util.Limiter

	pending   map[string]time.Time
	pendingMu sync.Mutex
	timer     *time.Timer
}

func NewWatcher(debounce time.Duration, excludeDirs, excludeFiles []string, onChange func([]string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		debounce:  debounce,
		onChange:  onChange,
		limiter:   util.NewLimiter(rescansPerSecond, rescanBurst),
		pending:   make(map[string]time.Time),
	}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		w.excludeDirs = append(w.excludeDirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		w.excludeFiles = append(w.excludeFiles, g)
	}

	return w, nil
}

// Watch registers all directories under the given roots and starts the
// event loop.
func (w *Watcher) Watch(roots []string) error {
	if len(roots) == 0 {
		return errors.New(errors.CodeValidation, "no roots to watch")
	}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			return err
		}
	}

	go w.run()
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.excludedDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	observability.WatcherEventsTotal.Inc()

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.handleNewDir(event.Name)
			return
		}
	}

	if w.excludedFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.queueChange(event.Name)
	}
}

// handleNewDir starts watching a directory created after Watch and queues
// any files it already contains. Both are needed for tools that write into
// a fresh temp directory and rename it in place.
func (w *Watcher) handleNewDir(path string) {
	if w.excludedDir(path) {
		return
	}
	if err := w.addTree(path); err != nil {
		slog.Warn("failed to watch new directory", "path", path, "error", err)
		return
	}
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() {
			return nil
		}
		if !w.excludedFile(p) {
			w.queueChange(p)
		}
		return nil
	})
}

func (w *Watcher) queueChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	// Over the rescan rate cap: keep the batch pending and try again
	// after another debounce interval.
	if !w.limiter.Allow() {
		w.pendingMu.Lock()
		w.timer = time.AfterFunc(w.debounce, w.flush)
		w.pendingMu.Unlock()
		return
	}

	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) > 0 {
		observability.WatcherRescansTotal.Inc()
		w.callbackMu.Lock()
		defer w.callbackMu.Unlock()
		w.onChange(paths)
	}
}

func (w *Watcher) excludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// excludedFile reports paths the scan would never pick up, so edits to
// them cannot change findings.
func (w *Watcher) excludedFile(path string) bool {
	if !parser.IsSupportedPath(path) {
		return true
	}
	base := filepath.Base(path)
	for _, g := range w.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	if w.timer != nil {
		w.timer.Stop()
	}
	return w.fsWatcher.Close()
}
