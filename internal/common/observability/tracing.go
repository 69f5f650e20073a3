package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type TracingOptions struct {
	Enabled        bool
	JaegerEndpoint string
	// SpanProcessor overrides the jaeger exporter, e.g. a tracetest recorder.
	SpanProcessor sdktrace.SpanProcessor
}

type tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

func (t *tracing) init(serviceName string, opts TracingOptions) error {
	processor := opts.SpanProcessor
	if processor == nil {
		if !opts.Enabled || opts.JaegerEndpoint == "" {
			t.useNoop()
			return nil
		}
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			return fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		processor = sdktrace.NewBatchSpanProcessor(exporter)
	}

	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(processor),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(t.provider)
	t.tracer = t.provider.Tracer(serviceName)
	return nil
}

func (t *tracing) useNoop() {
	t.tracer = noop.NewTracerProvider().Tracer("")
}

// StartSpan starts a span under ctx carrying the given attributes.
func (t *tracing) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (t *tracing) shutdown(ctx context.Context) {
	if t.provider != nil {
		_ = t.provider.Shutdown(ctx)
	}
}
