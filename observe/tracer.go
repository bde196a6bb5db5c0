package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Meta describes one repository query or network dispatch for telemetry.
type Meta struct {
	Component string // "repository" or "collapser"
	Resource  string // logical resource name (optional)
	Method    string // HTTP method
	URL       string // requested URL
	Policy    string // access policy name (repository only)
}

// SpanName returns the deterministic span name.
// Format: netrepo.<component>.<resource> or netrepo.<component>
func (m Meta) SpanName() string {
	if m.Resource != "" {
		return "netrepo." + m.Component + "." + m.Resource
	}
	return "netrepo." + m.Component
}

func (m Meta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("netrepo.component", m.Component),
	}
	if m.Resource != "" {
		attrs = append(attrs, attribute.String("netrepo.resource", m.Resource))
	}
	if m.Method != "" {
		attrs = append(attrs, attribute.String("http.request.method", m.Method))
	}
	if m.URL != "" {
		attrs = append(attrs, attribute.String("url.full", m.URL))
	}
	if m.Policy != "" {
		attrs = append(attrs, attribute.String("netrepo.policy", m.Policy))
	}
	return attrs
}

// Fields returns the metadata as log fields, skipping empty values.
func (m Meta) Fields() []Field {
	fields := make([]Field, 0, 5)
	for _, kv := range m.attributes() {
		fields = append(fields, Field{Key: string(kv.Key), Value: kv.Value.AsString()})
	}
	return fields
}

// Tracer wraps OpenTelemetry tracing for queries and dispatches.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	StartSpan(ctx context.Context, meta Meta) (context.Context, trace.Span)

	// EndSpan ends the span, recording err when non-nil.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta Meta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("netrepo.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("netrepo.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta Meta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
