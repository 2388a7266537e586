// Package metrics provides the Prometheus metrics of the aggregation pipeline.
// HTTP server metrics live with the HTTP middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics track each outbound news API call.
var (
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of news provider API calls",
		},
		[]string{"provider", "status"}, // status: success, error, rejected
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "News provider API call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		},
		[]string{"provider"},
	)

	ProviderArticlesMapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_articles_mapped_total",
			Help: "Articles mapped from provider responses",
		},
		[]string{"provider"},
	)

	ProviderItemsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_items_dropped_total",
			Help: "Provider items rejected at the mapping boundary",
		},
		[]string{"provider", "reason"},
	)
)

// Aggregation metrics track fan-out runs and storage.
var (
	AggregationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_runs_total",
			Help: "Total number of aggregation runs",
		},
		[]string{"status"},
	)

	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregation_duration_seconds",
			Help:    "Duration of a full fetch across all providers",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	ArticlesFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Articles returned by providers before de-duplication",
		},
	)

	DuplicatesRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_duplicates_removed_total",
			Help: "Articles dropped by URL de-duplication within a run",
		},
	)

	ArticlesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_saved_total",
			Help: "Articles written to storage",
		},
		[]string{"result"}, // result: inserted, skipped
	)

	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Total number of articles in the database",
		},
	)
)

// Content enrichment metrics.
var (
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of full content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)
