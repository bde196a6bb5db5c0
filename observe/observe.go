package observe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/netrepo/observe/exporters"
)

// Config selects which telemetry subsystems NewObserver starts. The client
// package loads it from OBSERVE_* environment variables.
type Config struct {
	ServiceName string        `env:"SERVICE_NAME" envDefault:"netrepo"`
	Version     string        `env:"SERVICE_VERSION"`
	Tracing     TracingConfig `envPrefix:"TRACING_"`
	Metrics     MetricsConfig `envPrefix:"METRICS_"`
	Logging     LoggingConfig `envPrefix:"LOG_"`
}

// TracingConfig selects the span exporter and the sample fraction.
type TracingConfig struct {
	Enabled   bool    `env:"ENABLED"`
	Exporter  string  `env:"EXPORTER"`   // otlp|jaeger|stdout|none
	SamplePct float64 `env:"SAMPLE_PCT"` // 0.0-1.0
}

// MetricsConfig selects the metric reader.
type MetricsConfig struct {
	Enabled  bool   `env:"ENABLED"`
	Exporter string `env:"EXPORTER"` // otlp|prometheus|stdout|none
}

// LoggingConfig selects the zerolog level and sink.
type LoggingConfig struct {
	Enabled bool   `env:"ENABLED"`
	Level   string `env:"LEVEL" envDefault:"info"` // debug|info|warn|error

	// Writer receives log lines. Defaults to os.Stderr.
	Writer io.Writer `env:"-"`
}

var (
	tracingExporters = []string{"", "none", "stdout", "otlp", "jaeger"}
	metricsExporters = []string{"", "none", "stdout", "otlp", "prometheus"}
	logLevels        = []string{"", "debug", "info", "warn", "error"}
)

// Validate reports the first invalid setting. Disabled subsystems are not
// checked.
func (c *Config) Validate() error {
	switch {
	case c.ServiceName == "":
		return ErrMissingServiceName
	case c.Tracing.Enabled && !slices.Contains(tracingExporters, c.Tracing.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
	case c.Tracing.Enabled && (c.Tracing.SamplePct < 0 || c.Tracing.SamplePct > 1):
		return fmt.Errorf("%w: got %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
	case c.Metrics.Enabled && !slices.Contains(metricsExporters, c.Metrics.Exporter):
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	case c.Logging.Enabled && !slices.Contains(logLevels, c.Logging.Level):
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	return nil
}

// Observer hands out the tracer, meter and logger the repository and the
// collapser report through.
//
// Observer is safe for concurrent use. Shutdown honors ctx and joins the
// errors of every provider it stops.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Logger() Logger

	// Shutdown flushes and stops every provider started by NewObserver.
	Shutdown(ctx context.Context) error
}

type telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	// stop holds the shutdown of each started provider, in start order.
	stop []func(context.Context) error
}

// NewObserver starts the subsystems enabled in cfg. Disabled subsystems are
// served by no-op implementations.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("observe: resource: %w", err)
	}

	t := &telemetry{
		tracer: tracenoop.NewTracerProvider().Tracer(cfg.ServiceName),
		meter:  noop.NewMeterProvider().Meter(cfg.ServiceName),
		logger: newLogger(cfg.Logging),
	}

	if cfg.Tracing.Enabled {
		exp, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Exporter)
		if err != nil {
			return nil, fmt.Errorf("observe: tracing: %w", err)
		}
		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(cfg.Tracing.SamplePct)),
		}
		if exp != nil {
			opts = append(opts, sdktrace.WithBatcher(exp))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		t.tracer = tp.Tracer(cfg.ServiceName)
		t.stop = append(t.stop, named("tracer", tp.Shutdown))
	}

	if cfg.Metrics.Enabled {
		reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter)
		if err != nil {
			_ = t.Shutdown(ctx)
			return nil, fmt.Errorf("observe: metrics: %w", err)
		}
		opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
		if reader != nil {
			opts = append(opts, sdkmetric.WithReader(reader))
		}
		mp := sdkmetric.NewMeterProvider(opts...)
		otel.SetMeterProvider(mp)
		t.meter = mp.Meter(cfg.ServiceName)
		t.stop = append(t.stop, named("meter", mp.Shutdown))
	}

	return t, nil
}

// newResource describes the process to the exporters.
func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.Version))
	}
	return resource.New(ctx, resource.WithTelemetrySDK(), resource.WithAttributes(attrs...))
}

// sampler maps a sample fraction to a sampler. Fractions outside (0, 1) pin
// to never or always. Child spans follow their parent's decision.
func sampler(pct float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case pct >= 1:
		root = sdktrace.AlwaysSample()
	case pct <= 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(pct)
	}
	return sdktrace.ParentBased(root)
}

func newLogger(cfg LoggingConfig) Logger {
	switch {
	case !cfg.Enabled:
		return NopLogger()
	case cfg.Writer != nil:
		return NewLoggerWithWriter(cfg.Level, cfg.Writer)
	default:
		return NewLogger(cfg.Level)
	}
}

func named(provider string, shutdown func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := shutdown(ctx); err != nil {
			return fmt.Errorf("%s shutdown: %w", provider, err)
		}
		return nil
	}
}

func (t *telemetry) Tracer() trace.Tracer { return t.tracer }
func (t *telemetry) Meter() metric.Meter  { return t.meter }
func (t *telemetry) Logger() Logger       { return t.logger }

func (t *telemetry) Shutdown(ctx context.Context) error {
	errs := make([]error, 0, len(t.stop))
	for _, stop := range t.stop {
		errs = append(errs, stop(ctx))
	}
	return errors.Join(errs...)
}
