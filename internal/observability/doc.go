// Package observability groups structured logging, Prometheus metrics and
// OpenTelemetry tracing for the API server and the aggregation worker.
//
// Subpackages:
//   - logging: slog helpers with request ID propagation
//   - metrics: aggregation and provider metrics
//   - tracing: tracer access and HTTP server spans
package observability
