// Package metrics exposes Prometheus collectors for provider calls,
// aggregation runs and content enrichment. All collectors register with the
// default registry through promauto and are served at /metrics.
package metrics
