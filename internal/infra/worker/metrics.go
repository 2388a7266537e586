package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"news-aggregator/internal/pkg/config"
)

// Metrics are the scheduler's Prometheus series. Config embeds the
// worker_config_* metrics used by LoadConfigFromEnv.
type Metrics struct {
	Config *config.Metrics

	JobRunsTotal        *prometheus.CounterVec
	JobDurationSeconds  prometheus.Histogram
	JobArticlesSaved    prometheus.Counter
	JobOverlapsTotal    prometheus.Counter
	LastSuccessUnixTime prometheus.Gauge
}

// NewMetrics registers the worker metrics on reg. A nil reg means the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Config: config.NewMetrics("worker", reg),

		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_aggregation_job_runs_total",
			Help: "Scheduled aggregation runs by status (success, failure)",
		}, []string{"status"}),

		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_aggregation_job_duration_seconds",
			Help:    "Duration of scheduled aggregation runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),

		JobArticlesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "worker_aggregation_job_articles_saved_total",
			Help: "Articles inserted by scheduled aggregation runs",
		}),

		JobOverlapsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "worker_aggregation_job_overlaps_total",
			Help: "Scheduled runs started while a previous run was still in progress",
		}),

		LastSuccessUnixTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_aggregation_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}),
	}
}

// RecordRun records one finished run.
func (m *Metrics) RecordRun(success bool, seconds float64, saved int) {
	status := "failure"
	if success {
		status = "success"
		m.LastSuccessUnixTime.SetToCurrentTime()
	}
	m.JobRunsTotal.WithLabelValues(status).Inc()
	m.JobDurationSeconds.Observe(seconds)
	if saved > 0 {
		m.JobArticlesSaved.Add(float64(saved))
	}
}

func (m *Metrics) RecordOverlap() { m.JobOverlapsTotal.Inc() }
