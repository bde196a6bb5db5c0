package repository

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/netrepo/call/calltest"
	"github.com/jonwraymond/netrepo/observe"
)

func TestRepository_SpanPerRun(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	inst := &observe.Instrumentation{Tracer: observe.NewTracer(tp.Tracer("test"))}

	repo := New[user](&box{}, nil, WithResource("users"), WithInstrumentation(inst))
	ep := calltest.NewEndpoint(http.MethodGet, "/users/7", calltest.Success(ada))

	repo.Fetch(context.Background(), PolicyFirst, ep.NewCall(), boxStrategy, &outcome{})
	repo.Fetch(context.Background(), PolicyFirst, ep.NewCall(), boxStrategy, &outcome{})

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	for _, s := range spans {
		if s.Name() != "netrepo.repository.users" {
			t.Errorf("span name = %q", s.Name())
		}
		var policy string
		for _, kv := range s.Attributes() {
			if kv.Key == attribute.Key("netrepo.policy") {
				policy = kv.Value.AsString()
			}
		}
		if policy != "first" {
			t.Errorf("netrepo.policy = %q, want first", policy)
		}
	}
}
