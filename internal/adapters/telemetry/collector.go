package telemetry

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/testforge/internal/core/domain"
)

var _ sdktrace.SpanProcessor = (*Collector)(nil)

type collected struct {
	start  time.Time
	timing domain.Timing
}

// Collector implements sdktrace.SpanProcessor and keeps the durations of root spans.
// Child spans, such as per-source model calls, are folded into their phase.
type Collector struct {
	mu    sync.Mutex
	spans []collected
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// OnStart does nothing.
func (c *Collector) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd records the span if it has no parent.
func (c *Collector) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() || s.Parent().IsValid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = append(c.spans, collected{
		start: s.StartTime(),
		timing: domain.Timing{
			Name:     s.Name(),
			Duration: s.EndTime().Sub(s.StartTime()),
			Failed:   s.Status().Code == codes.Error,
		},
	})
}

// Timings returns the recorded phases in start order.
func (c *Collector) Timings() []domain.Timing {
	c.mu.Lock()
	spans := slices.Clone(c.spans)
	c.mu.Unlock()

	slices.SortStableFunc(spans, func(a, b collected) int {
		return a.start.Compare(b.start)
	})

	out := make([]domain.Timing, len(spans))
	for i, s := range spans {
		out[i] = s.timing
	}
	return out
}

// Reset forgets all recorded phases.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans = nil
}

// ForceFlush does nothing.
func (c *Collector) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (c *Collector) Shutdown(_ context.Context) error {
	return nil
}
