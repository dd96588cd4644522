package ports

import (
	"context"
	"iter"
	"path/filepath"

	"go.trai.ch/testforge/internal/core/domain"
)

// WatchOp is the kind of change seen below the source directory.
type WatchOp uint8

// Watch operations.
const (
	OpCreate WatchOp = iota
	OpWrite
	OpRemove
	OpRename
)

var watchOpNames = [...]string{"create", "write", "remove", "rename"}

// String returns the operation name.
func (o WatchOp) String() string {
	if int(o) < len(watchOpNames) {
		return watchOpNames[o]
	}
	return "unknown"
}

// WatchEvent is one change to a path below the source directory.
type WatchEvent struct {
	Path      string
	Operation WatchOp
}

// Affects reports whether the event can change the corpus read with filter.
// Removals and renames always count since they may take a whole directory.
func (e WatchEvent) Affects(filter domain.SourceFilter) bool {
	if e.Operation == OpRemove || e.Operation == OpRename {
		return true
	}
	return filter.Accepts(filepath.Base(e.Path))
}

// Watcher reports changes to the source tree so that runs can be repeated.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches root and every directory below it until ctx ends.
	Start(ctx context.Context, root string) error
	Stop() error
	// Events ends once the watcher stops.
	Events() iter.Seq[WatchEvent]
}
