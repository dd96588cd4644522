package watcher

import (
	"slices"
	"sync"
	"time"
)

// DefaultDebounceWindow is the default time window for coalescing source changes.
const DefaultDebounceWindow = 300 * time.Millisecond

// Debouncer coalesces rapid file system events into one batch of paths.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[string]struct{}
	timer    *time.Timer
	window   time.Duration
	callback func(paths []string)
}

// NewDebouncer creates a new debouncer with the given time window and callback.
func NewDebouncer(window time.Duration, callback func(paths []string)) *Debouncer {
	return &Debouncer{
		pending:  make(map[string]struct{}),
		window:   window,
		callback: callback,
	}
}

// Add records path and restarts the debounce window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	paths := d.drain(false)
	if len(paths) > 0 && d.callback != nil {
		go d.callback(paths)
	}
}

// Flush runs the callback for all pending paths and waits for it to return.
func (d *Debouncer) Flush() {
	paths := d.drain(true)
	if len(paths) > 0 && d.callback != nil {
		d.callback(paths)
	}
}

// drain empties the pending set and returns its paths in sorted order.
// When stopTimer is set and the timer already fired, nothing is returned so
// the batch is delivered only once.
func (d *Debouncer) drain(stopTimer bool) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if stopTimer && d.timer != nil && !d.timer.Stop() {
		return nil
	}
	d.timer = nil

	if len(d.pending) == 0 {
		return nil
	}

	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	d.pending = make(map[string]struct{})
	return paths
}
