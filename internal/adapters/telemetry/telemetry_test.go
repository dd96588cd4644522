package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/testforge/internal/adapters/telemetry"
	"go.trai.ch/testforge/internal/core/ports"
)

func TestOTelTracer_SpanAttributesAndErrors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp, "test")

	ctx, span := tracer.Start(context.Background(), "generate",
		ports.WithAttribute("source", "calc.cpp"),
		ports.WithAttribute("attempt", 2),
	)
	tracer.EmitPlan(ctx, "generated", []string{"calc.cpp", "shape.h"})
	span.SetAttribute("ok", true)
	_, err := span.Write([]byte("compiling"))
	require.NoError(t, err)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]

	assert.Equal(t, "generate", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "boom", got.Status().Description)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "calc.cpp", attrs["source"].AsString())
	assert.Equal(t, int64(2), attrs["attempt"].AsInt64())
	assert.True(t, attrs["ok"].AsBool())

	var names []string
	for _, ev := range got.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "plan_emitted")
	assert.Contains(t, names, "log")
}

func TestCollector_RecordsRootSpansInOrder(t *testing.T) {
	collector := telemetry.NewCollector()
	tp := telemetry.NewProvider(collector)
	tracer := telemetry.NewOTelTracer(tp, "test")
	ctx := context.Background()

	genCtx, gen := tracer.Start(ctx, "generate")
	_, child := tracer.Start(genCtx, "generate calc.cpp")
	child.End()
	gen.End()

	_, build := tracer.Start(ctx, "build #1")
	build.RecordError(errors.New("compile failed"))
	build.End()

	timings := collector.Timings()
	require.Len(t, timings, 2)
	assert.Equal(t, "generate", timings[0].Name)
	assert.False(t, timings[0].Failed)
	assert.GreaterOrEqual(t, timings[0].Duration.Nanoseconds(), int64(0))
	assert.Equal(t, "build #1", timings[1].Name)
	assert.True(t, timings[1].Failed)

	collector.Reset()
	assert.Empty(t, collector.Timings())

	require.NoError(t, collector.ForceFlush(ctx))
	require.NoError(t, tp.Shutdown(ctx))
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(context.Background(), "noop", ports.WithAttribute("k", "v"))
	require.NotNil(t, ctx)

	tracer.EmitPlan(ctx, "generated", []string{"a.cpp"})
	span.SetAttribute("k", 1)
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.End()
}
