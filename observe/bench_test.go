package observe

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

// BenchmarkLogger_Info measures logging throughput.
func BenchmarkLogger_Info(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", F("iteration", i))
	}
}

// BenchmarkLogger_Info_MultipleFields measures logging with several fields,
// one of them redacted.
func BenchmarkLogger_Info_MultipleFields(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	ctx := context.Background()
	fields := []Field{
		F("method", "GET"),
		F("url", "https://api.example.com/users/42"),
		F("status", 200),
		F("authorization", "Bearer secret"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info(ctx, "benchmark message", fields...)
	}
}

// BenchmarkLogger_LevelFiltering measures the cost of filtered levels.
func BenchmarkLogger_LevelFiltering(b *testing.B) {
	logger := NewLoggerWithWriter("error", io.Discard)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug(ctx, "filtered debug")
		logger.Info(ctx, "filtered info")
	}
}

// BenchmarkLogger_With measures creating scoped loggers.
func BenchmarkLogger_With(b *testing.B) {
	logger := NewLoggerWithWriter("info", io.Discard)
	meta := Meta{Component: "repository", Resource: "users", Method: "GET"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = logger.With(meta.Fields()...)
	}
}

// BenchmarkMetrics_RecordQuery measures recording a successful query.
func BenchmarkMetrics_RecordQuery(b *testing.B) {
	m, _ := newTestMetrics(b)
	ctx := context.Background()
	meta := Meta{Component: "repository", Resource: "users", Method: "GET", Policy: "FIRST"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordQuery(ctx, meta, OutcomeCache, time.Millisecond, nil)
	}
}

// BenchmarkMetrics_RecordQuery_Error measures recording a failed query.
func BenchmarkMetrics_RecordQuery_Error(b *testing.B) {
	m, _ := newTestMetrics(b)
	ctx := context.Background()
	meta := Meta{Component: "repository", Resource: "users", Method: "GET", Policy: "NONE"}
	err := errors.New("boom")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordQuery(ctx, meta, OutcomeNetwork, time.Millisecond, err)
	}
}

// BenchmarkMetrics_RecordQuery_Concurrent measures contention on the
// instruments.
func BenchmarkMetrics_RecordQuery_Concurrent(b *testing.B) {
	m, _ := newTestMetrics(b)
	ctx := context.Background()
	meta := Meta{Component: "repository", Resource: "users", Method: "GET", Policy: "FIRST"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.RecordQuery(ctx, meta, OutcomeCache, time.Millisecond, nil)
		}
	})
}

// BenchmarkTracer_StartEndSpan measures span lifecycle on the noop tracer.
func BenchmarkTracer_StartEndSpan(b *testing.B) {
	tracer := newNoopTracer()
	ctx := context.Background()
	meta := Meta{Component: "collapser", Method: "GET", URL: "https://api.example.com/users"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, span := tracer.StartSpan(ctx, meta)
		tracer.EndSpan(span, nil)
	}
}
