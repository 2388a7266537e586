package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Account endpoint calls by operation and result",
		},
		[]string{"operation", "result"}, // result: success | failure
	)

	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Account endpoint duration by operation",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	tokenChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_checks_total",
			Help: "Bearer token verifications by result",
		},
		[]string{"result"}, // valid | missing | invalid | revoked
	)

	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Non-admin requests to admin routes by method",
		},
		[]string{"method"},
	)
)

// RecordAuthRequest counts one account endpoint call.
func RecordAuthRequest(operation, result string) {
	authRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAuthDuration records how long an account endpoint took.
func RecordAuthDuration(operation string, seconds float64) {
	authDuration.WithLabelValues(operation).Observe(seconds)
}

func recordTokenCheck(result string) {
	tokenChecksTotal.WithLabelValues(result).Inc()
}

// RecordForbiddenAttempt counts a rejected admin route access.
func RecordForbiddenAttempt(method string) {
	forbiddenAttempts.WithLabelValues(method).Inc()
}
