// Package watcher re-supplies board data when the files behind it change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events a single save produces.
const debounce = 100 * time.Millisecond

const meaningfulOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher calls a callback after files in the watched directories change.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
	match    func(name string) bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFiles restricts notifications to events on the given base names, such
// as the cards file and config file of a board.
func WithFiles(names ...string) Option {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(w *Watcher) {
		w.match = func(name string) bool { return set[filepath.Base(name)] }
	}
}

// New watches every path in paths. It fails if any path cannot be watched.
func New(paths []string, callback func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}
	w := &Watcher{fsw: fsw, callback: callback}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run delivers debounced change notifications until ctx is done or the
// watcher is closed. Watch errors go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&meaningfulOps == 0 {
				continue
			}
			if w.match != nil && !w.match(ev.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		case <-fire:
			fire = nil
			w.callback()
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
