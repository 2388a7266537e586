package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-aggregator/internal/infra/provider"
)

// ProviderStatus is satisfied by *provider.Registry.
type ProviderStatus interface {
	Status() []provider.Status
	Healthy() bool
}

// HealthServer exposes the worker's probes and metrics:
//
//	GET /health            liveness, always 200
//	GET /health/ready      200 once the scheduler is running, else 503
//	GET /health/providers  provider configuration and breaker state
//	GET /metrics           Prometheus
type HealthServer struct {
	addr      string
	logger    *slog.Logger
	ready     atomic.Bool
	providers ProviderStatus
	gatherer  prometheus.Gatherer
	lastRun   atomic.Pointer[RunInfo]
}

// RunInfo describes the most recent scheduled run.
type RunInfo struct {
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Success   bool      `json:"success"`
	Saved     int       `json:"saved"`
	Error     string    `json:"error,omitempty"`
}

type statusBody struct {
	Status string `json:"status"`
}

type providersBody struct {
	Healthy   bool              `json:"healthy"`
	Providers []provider.Status `json:"providers"`
	LastRun   *RunInfo          `json:"last_run,omitempty"`
}

// NewHealthServer builds an unstarted server. gatherer may be nil for the default registry.
func NewHealthServer(addr string, providers ProviderStatus, gatherer prometheus.Gatherer, logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &HealthServer{addr: addr, logger: logger, providers: providers, gatherer: gatherer}
}

// SetReady flips the readiness probe.
func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// SetLastRun publishes the outcome of a run on /health/providers.
func (h *HealthServer) SetLastRun(info RunInfo) {
	h.lastRun.Store(&info)
}

// Handler returns the routes without starting a listener.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.write(w, http.StatusOK, statusBody{Status: "ok"})
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !h.ready.Load() {
			h.write(w, http.StatusServiceUnavailable, statusBody{Status: "not ready"})
			return
		}
		h.write(w, http.StatusOK, statusBody{Status: "ok"})
	})
	mux.HandleFunc("GET /health/providers", h.handleProviders)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (h *HealthServer) handleProviders(w http.ResponseWriter, _ *http.Request) {
	body := providersBody{Healthy: true, LastRun: h.lastRun.Load()}
	if h.providers != nil {
		body.Healthy = h.providers.Healthy()
		body.Providers = h.providers.Status()
	}
	code := http.StatusOK
	if !body.Healthy {
		code = http.StatusServiceUnavailable
	}
	h.write(w, code, body)
}

func (h *HealthServer) write(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
// It returns nil after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("worker health server starting", slog.String("addr", h.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	h.logger.Info("worker health server stopped")
	return nil
}
