// Package observe provides the logging, metrics and tracing used by the
// collapser and the repository.
//
// It is a pure instrumentation library: no execution and no I/O beyond
// exporter setup. Components accept an [Instrumentation] bundle; the zero
// choice is [Noop], and [NewInstrumentation] derives one from an [Observer]
// configured with OpenTelemetry providers and a zerolog-backed [Logger].
package observe
