package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name:    "unknown tracing exporter",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name:    "sample pct too high",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, SamplePct: 1.5}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "sample pct negative",
			cfg:     Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, SamplePct: -0.1}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "unknown metrics exporter",
			cfg:     Config{ServiceName: "svc", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name:    "unknown log level",
			cfg:     Config{ServiceName: "svc", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled sections are not checked",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Exporter: "zipkin"},
				Logging:     LoggingConfig{Level: "trace"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "observe-test"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("observer must never expose nil primitives")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_LoggingWriter(t *testing.T) {
	var buf bytes.Buffer
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "observe-test",
		Logging:     LoggingConfig{Enabled: true, Level: "debug", Writer: &buf},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	obs.Logger().Debug(context.Background(), "hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("log output %q does not contain message", buf.String())
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver() error = %v, want %v", err, ErrMissingServiceName)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{pct: 1, want: "root:AlwaysOnSampler"},
		{pct: 2, want: "root:AlwaysOnSampler"},
		{pct: 0, want: "root:AlwaysOffSampler"},
		{pct: -1, want: "root:AlwaysOffSampler"},
		{pct: 0.25, want: "root:TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		got := sampler(tt.pct).Description()
		if !strings.HasPrefix(got, "ParentBased{") || !strings.Contains(got, tt.want) {
			t.Errorf("sampler(%v) = %q, want parent based with %q", tt.pct, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	ctx := context.Background()

	res, err := newResource(ctx, Config{ServiceName: "netrepo-test", Version: "1.2.3"})
	if err != nil {
		t.Fatalf("newResource() error = %v", err)
	}
	if v, ok := res.Set().Value(semconv.ServiceNameKey); !ok || v.AsString() != "netrepo-test" {
		t.Errorf("service.name = %v, %v, want netrepo-test", v.AsString(), ok)
	}
	if v, ok := res.Set().Value(semconv.ServiceVersionKey); !ok || v.AsString() != "1.2.3" {
		t.Errorf("service.version = %v, %v, want 1.2.3", v.AsString(), ok)
	}

	res, err = newResource(ctx, Config{ServiceName: "netrepo-test"})
	if err != nil {
		t.Fatalf("newResource() error = %v", err)
	}
	if _, ok := res.Set().Value(semconv.ServiceVersionKey); ok {
		t.Error("service.version set without a version")
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "observe-test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	_, span := obs.Tracer().Start(ctx, "op")
	if !span.SpanContext().IsSampled() {
		t.Error("span not sampled at SamplePct 1")
	}
	span.End()

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
