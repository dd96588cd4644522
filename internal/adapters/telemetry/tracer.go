// Package telemetry adapts OpenTelemetry to the tracing port and collects
// phase timings for the run summary.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/testforge/internal/core/ports"
)

var _ ports.Tracer = (*OTelTracer)(nil)

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
}

// NewOTelTracer creates a tracer from provider, or from the global provider if nil.
func NewOTelTracer(provider trace.TracerProvider, name string) *OTelTracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &OTelTracer{tracer: provider.Tracer(name)}
}

// Start creates a new span carrying the attributes given in opts.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	s := &OTelSpan{span: span}
	for k, v := range cfg.Attributes {
		s.SetAttribute(k, v)
	}
	return ctx, s
}

// EmitPlan records the identifiers a stage is about to process as an event on the current span.
func (t *OTelTracer) EmitPlan(ctx context.Context, stage string, identifiers []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.String("stage", stage),
			attribute.StringSlice("sources", identifiers),
		))
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records an error for the span and marks it failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write satisfies io.Writer by adding a log event to the span.
func (s *OTelSpan) Write(p []byte) (n int, err error) {
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
