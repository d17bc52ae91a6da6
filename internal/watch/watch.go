// Package watch reruns a scan whenever the watched tree settles after changes
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bethropolis/dir-scanner/internal/logger"
)

// DefaultDebounceDelay is the quiet period that ends a burst of events
const DefaultDebounceDelay = 300 * time.Millisecond

// SkipFunc reports whether a path should be neither watched nor trigger a
// rescan
type SkipFunc func(path string, isDir bool) bool

// Watcher watches a directory tree with fsnotify
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	skip     SkipFunc
	logger   logger.Interface
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithSkip excludes paths from watching and from triggering
func WithSkip(skip SkipFunc) Option {
	return func(w *Watcher) {
		if skip != nil {
			w.skip = skip
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Interface) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching root and every subdirectory not skipped
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fsw,
		root:     filepath.Clean(root),
		debounce: DefaultDebounceDelay,
		skip:     func(string, bool) bool { return false },
		logger:   logger.Nop{},
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addRecursive(w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// WatchList returns the directories currently watched
func (w *Watcher) WatchList() []string {
	return w.fs.WatchList()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && !errors.Is(err, fs.ErrPermission) {
				return err
			}
			w.logger.Debug("Not watching %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skip(path, true) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
				w.logger.Debug("Not watching %s: %v", path, err)
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

// Run blocks until ctx is done, calling onChange once after every burst of
// relevant events has been quiet for the debounce delay.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			if fire != nil && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error: %v", err)

		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("Rescan failed: %v", err)
			}
		}
	}
}

// handle reports whether the event should trigger a rescan. New directories
// are added to the watch set.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	isDir := false
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if w.skip(event.Name, isDir) {
		return false
	}
	if isDir {
		if err := w.addRecursive(event.Name); err != nil {
			w.logger.Warn("Cannot watch new directory %s: %v", event.Name, err)
		}
	}
	w.logger.Debug("Change: %s %s", event.Op, event.Name)
	return true
}
