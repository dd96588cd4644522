package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/adapters/watcher"
	"go.trai.ch/testforge/internal/core/ports"
)

func TestWatcher_ReportsWritesInNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))

	seen := make(chan ports.WatchEvent, 64)
	go func() {
		for ev := range w.Events() {
			seen <- ev
		}
		close(seen)
	}()

	nested := filepath.Join(root, "geometry")
	require.NoError(t, os.Mkdir(nested, 0o750))
	waitFor(t, seen, nested, nil, ports.OpCreate)

	// The new directory is added asynchronously, so keep writing until seen.
	target := filepath.Join(nested, "shape.cpp")
	waitFor(t, seen, target, func() {
		require.NoError(t, os.WriteFile(target, []byte("struct Shape {};"), 0o600))
	}, ports.OpCreate, ports.OpWrite)
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, t.TempDir()))
	cancel()

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after cancel")
	}
}

func waitFor(t *testing.T, seen <-chan ports.WatchEvent, path string, touch func(), ops ...ports.WatchOp) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	if touch != nil {
		touch()
	}
	for {
		select {
		case <-tick.C:
			if touch != nil {
				touch()
			}
		case ev, ok := <-seen:
			require.True(t, ok, "event stream closed")
			if ev.Path != path {
				continue
			}
			for _, op := range ops {
				if ev.Operation == op {
					return
				}
			}
		case <-deadline:
			assert.Failf(t, "missing event", "no event for %s", path)
			return
		}
	}
}
