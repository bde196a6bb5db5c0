package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome is the data path a query resolved through.
type Outcome string

const (
	// OutcomeCache means the query was answered from the cache.
	OutcomeCache Outcome = "cache"
	// OutcomeNetwork means the query went to the network.
	OutcomeNetwork Outcome = "network"
	// OutcomeMiss means a cache-only query found nothing.
	OutcomeMiss Outcome = "miss"
)

// Metrics records repository and collapser activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordQuery records one resolved query.
	RecordQuery(ctx context.Context, meta Meta, outcome Outcome, duration time.Duration, err error)

	// RecordDispatch records one network dispatch and how many waiters it
	// served. waiters-1 requests were collapsed into it.
	RecordDispatch(ctx context.Context, meta Meta, waiters int)
}

type metricsImpl struct {
	queryTotal    metric.Int64Counter
	queryErrors   metric.Int64Counter
	queryDuration metric.Float64Histogram
	dispatchTotal metric.Int64Counter
	collapsed     metric.Int64Counter
}

// NewMetrics creates Metrics instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	queryTotal, err := meter.Int64Counter(
		"netrepo.query.total",
		metric.WithDescription("Total number of resolved repository queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	queryErrors, err := meter.Int64Counter(
		"netrepo.query.errors",
		metric.WithDescription("Total number of repository queries resolved with an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	queryDuration, err := meter.Float64Histogram(
		"netrepo.query.duration_ms",
		metric.WithDescription("Repository query duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchTotal, err := meter.Int64Counter(
		"netrepo.dispatch.total",
		metric.WithDescription("Total number of network dispatches"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	collapsed, err := meter.Int64Counter(
		"netrepo.dispatch.collapsed",
		metric.WithDescription("Requests served by another caller's in-flight dispatch"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		queryTotal:    queryTotal,
		queryErrors:   queryErrors,
		queryDuration: queryDuration,
		dispatchTotal: dispatchTotal,
		collapsed:     collapsed,
	}, nil
}

func (m *metricsImpl) RecordQuery(ctx context.Context, meta Meta, outcome Outcome, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("netrepo.outcome", string(outcome)),
	}
	if meta.Resource != "" {
		attrs = append(attrs, attribute.String("netrepo.resource", meta.Resource))
	}
	if meta.Policy != "" {
		attrs = append(attrs, attribute.String("netrepo.policy", meta.Policy))
	}
	opt := metric.WithAttributes(attrs...)

	m.queryTotal.Add(ctx, 1, opt)
	if err != nil {
		m.queryErrors.Add(ctx, 1, opt)
	}
	m.queryDuration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

func (m *metricsImpl) RecordDispatch(ctx context.Context, meta Meta, waiters int) {
	opt := metric.WithAttributes(attribute.String("http.request.method", meta.Method))

	m.dispatchTotal.Add(ctx, 1, opt)
	if waiters > 1 {
		m.collapsed.Add(ctx, int64(waiters-1), opt)
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordQuery(context.Context, Meta, Outcome, time.Duration, error) {}
func (noopMetrics) RecordDispatch(context.Context, Meta, int)                        {}
