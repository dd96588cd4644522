package telemetry

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewProvider returns a tracer provider that reports every span to processors.
func NewProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// Install registers tp as the global tracer provider.
func Install(tp *sdktrace.TracerProvider) {
	otel.SetTracerProvider(tp)
}
