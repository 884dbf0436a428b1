package lsp

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/remod/pkg/parser"
	"github.com/gnana997/remod/pkg/scanner"
)

// DefaultDebounce groups rapid changes to the same file.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports source file changes under a workspace root.
//
// Every change reaches OnInvalidate immediately; OnChange runs once per file
// after the debounce window has passed without further events.
type Watcher struct {
	fs     *fsnotify.Watcher
	root   string
	ignore []string
	delay  time.Duration
	log    *slog.Logger

	OnInvalidate func(path string)
	OnChange     func(path string)

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// NewWatcher watches root and every directory below it that is not one of
// scanner.DefaultExcludes or matched by ignore.
func NewWatcher(root string, ignore []string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:     fw,
		root:   absRoot,
		ignore: ignore,
		delay:  delay,
		log:    logger,
		timers: make(map[string]*time.Timer),
	}
	if err := w.addTree(absRoot); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on error
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.log.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) skipDir(path string) bool {
	return scanner.ShouldIgnore(scanner.DefaultExcludes, w.root, path) ||
		scanner.ShouldIgnore(w.ignore, w.root, path)
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("file watcher started", "root", w.root)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) stop() {
	w.timersMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timersMu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.log.Warn("failed to close file watcher", "error", err)
	}
	w.log.Info("file watcher stopped")
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.skipDir(path) {
				if err := w.addTree(path); err != nil {
					w.log.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !parser.IsSourceFile(path) || scanner.ShouldIgnore(w.ignore, w.root, path) {
		return
	}

	w.log.Debug("file event", "op", event.Op.String(), "file", path)
	if w.OnInvalidate != nil {
		w.OnInvalidate(path)
	}
	w.debounce(path)
}

func (w *Watcher) debounce(path string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.delay, func() {
		w.timersMu.Lock()
		delete(w.timers, path)
		w.timersMu.Unlock()

		if w.OnChange != nil {
			w.OnChange(path)
		}
	})
}

// Pending returns the number of changes waiting out their debounce window.
func (w *Watcher) Pending() int {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	return len(w.timers)
}
