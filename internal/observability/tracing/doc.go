// Package tracing wires OpenTelemetry into the HTTP server and the
// aggregation pipeline. The provider is installed once in main with
// InitProvider; code creates spans with Tracer().
package tracing
