// Package watcher reports changes below the source directory.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/testforge/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirs are never watched.
var skippedDirs = map[string]bool{
	".git": true,
	".jj":  true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: w,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching root and every directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range directories(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
// It ends when the watcher stops or the start context is canceled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields root and all directories below it that are not skipped.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skippedDirs[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.watchNewDirectory(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn(fmt.Sprintf("watcher: %v", err))
			}
		}
	}
}

func (w *Watcher) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skippedDirs[info.Name()] {
		return
	}
	for dir := range directories(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
