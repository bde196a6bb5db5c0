package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t testing.TB) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m := findMetric(rm, name)
	if m == nil {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordQuery(t *testing.T) {
	m, reader := newTestMetrics(t)
	meta := Meta{Component: "repository", Resource: "users", Policy: "first"}

	m.RecordQuery(context.Background(), meta, OutcomeCache, time.Millisecond, nil)
	m.RecordQuery(context.Background(), meta, OutcomeNetwork, 20*time.Millisecond, errors.New("boom"))

	rm := collect(t, reader)
	if got := sumValue(t, rm, "netrepo.query.total"); got != 2 {
		t.Errorf("netrepo.query.total = %d, want 2", got)
	}
	if got := sumValue(t, rm, "netrepo.query.errors"); got != 1 {
		t.Errorf("netrepo.query.errors = %d, want 1", got)
	}

	total := findMetric(rm, "netrepo.query.total")
	sum := total.Data.(metricdata.Sum[int64])
	outcomes := map[string]bool{}
	for _, dp := range sum.DataPoints {
		v, ok := dp.Attributes.Value(attribute.Key("netrepo.outcome"))
		if !ok {
			t.Fatal("missing netrepo.outcome attribute")
		}
		outcomes[v.AsString()] = true
	}
	if !outcomes["cache"] || !outcomes["network"] {
		t.Errorf("outcomes = %v, want cache and network", outcomes)
	}

	if findMetric(rm, "netrepo.query.duration_ms") == nil {
		t.Error("netrepo.query.duration_ms not recorded")
	}
}

func TestMetrics_RecordDispatch(t *testing.T) {
	m, reader := newTestMetrics(t)
	meta := Meta{Component: "collapser", Method: "GET", URL: "/users/7"}

	m.RecordDispatch(context.Background(), meta, 1)
	m.RecordDispatch(context.Background(), meta, 4)

	rm := collect(t, reader)
	if got := sumValue(t, rm, "netrepo.dispatch.total"); got != 2 {
		t.Errorf("netrepo.dispatch.total = %d, want 2", got)
	}
	if got := sumValue(t, rm, "netrepo.dispatch.collapsed"); got != 3 {
		t.Errorf("netrepo.dispatch.collapsed = %d, want 3", got)
	}
}
