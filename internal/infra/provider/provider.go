// Package provider contains one adapter per third-party news API. Each adapter
// issues a single HTTP call per Fetch, maps the provider's JSON into
// entity.Article values and records the call in the api_logs table.
// Calls are never retried.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/internal/resilience/circuitbreaker"
)

// Source is one news API.
type Source interface {
	// Name is the stable provider key ("newsapi", "gnews", "guardian", "nyt").
	Name() string
	Fetch(ctx context.Context, opts FetchOptions) (*Result, error)
}

// FetchOptions are the request parameters understood by the adapters.
// Each adapter ignores the fields its API has no equivalent for.
// A non-empty Query switches the adapter to its search endpoint.
type FetchOptions struct {
	Category string
	Query    string
	Section  string
	Page     int
	PageSize int
	Country  string
	Language string
}

// Result is a successful provider response mapped to articles.
type Result struct {
	Success  bool
	Articles []*entity.Article
	Total    int
}

// bodyErrorer is implemented by responses that can report a failure inside a 200 body.
type bodyErrorer interface {
	bodyError() error
}

// client holds what every adapter shares: HTTP, quota, breaker and logging.
type client struct {
	name     string
	display  string
	cfg      config.ProviderConfig
	http     *resty.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
	recorder *LogRecorder
	logger   *slog.Logger
}

func newClient(name, display string, cfg config.ProviderConfig, recorder *LogRecorder, logger *slog.Logger) *client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "news-aggregator/1.0")

	var limiter *rate.Limiter
	if cfg.DailyQuota > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(cfg.DailyQuota)), burst)
	}

	return &client{
		name:     name,
		display:  display,
		cfg:      cfg,
		http:     httpClient,
		limiter:  limiter,
		breaker:  circuitbreaker.New(circuitbreaker.ProviderConfig(name)),
		recorder: recorder,
		logger:   logger.With(slog.String("provider", name)),
	}
}

func (c *client) Name() string { return c.name }

// Breaker exposes the circuit breaker for health reporting.
func (c *client) Breaker() *circuitbreaker.CircuitBreaker { return c.breaker }

func (c *client) pageSize(opts FetchOptions) int {
	if opts.PageSize > 0 {
		return opts.PageSize
	}
	if c.cfg.PageSize > 0 {
		return c.cfg.PageSize
	}
	return 10
}

// get performs one GET against endpoint and decodes the JSON body into out.
// The call is written to api_logs once it has completed, whatever the outcome.
func (c *client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	ctx, span := tracing.Tracer().Start(ctx, "provider."+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider.name", c.name),
			attribute.String("provider.endpoint", endpoint),
		))
	defer span.End()

	start := time.Now()
	status, err := c.call(ctx, endpoint, params, out)
	elapsed := time.Since(start)

	c.recorder.Record(ctx, c.name, endpoint, status, elapsed, err)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err != nil {
		metrics.RecordProviderCall(c.name, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("provider request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status_code", status),
			slog.Duration("duration", elapsed),
			slog.String("error", respond.SanitizeError(err)))
		return &Error{Provider: c.display, StatusCode: status, Err: err}
	}

	metrics.RecordProviderCall(c.name, "success", elapsed)
	c.logger.Debug("provider request completed",
		slog.String("endpoint", endpoint),
		slog.Int("status_code", status),
		slog.Duration("duration", elapsed))
	return nil
}

// call returns the HTTP status, or 0 when no response was received.
func (c *client) call(ctx context.Context, endpoint string, params map[string]string, out any) (int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("quota wait: %w", err)
		}
	}

	var status int
	_, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(endpoint)
		if err != nil {
			// url.Error は API キー入りの URL を含むので外す
			var ue *url.Error
			if errors.As(err, &ue) {
				return nil, fmt.Errorf("%s %s: %w", ue.Op, endpoint, ue.Err)
			}
			return nil, err
		}
		status = resp.StatusCode()
		if resp.IsError() {
			return nil, errors.New(errorMessage(status, resp.Body()))
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if v, ok := out.(bodyErrorer); ok {
			return nil, v.bodyError()
		}
		return nil, nil
	})
	return status, err
}

// errorMessage pulls the human readable message out of the error bodies the
// four providers return, falling back to the HTTP status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message  string   `json:"message"`
		Errors   []string `json:"errors"`
		Response struct {
			Message string `json:"message"`
		} `json:"response"`
		Fault struct {
			FaultString string `json:"faultstring"`
		} `json:"fault"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case len(payload.Errors) > 0:
			msg = strings.Join(payload.Errors, "; ")
		case payload.Response.Message != "":
			msg = payload.Response.Message
		case payload.Fault.FaultString != "":
			msg = payload.Fault.FaultString
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Sprintf("status %d: %s", status, msg)
}

// finish drops articles that fail validation and wraps the rest in a Result.
func (c *client) finish(articles []*entity.Article, total int) *Result {
	kept := articles[:0]
	for _, a := range articles {
		if err := a.Validate(); err != nil {
			reason := "invalid"
			if a.URL == "" {
				reason = "missing_url"
			}
			metrics.RecordItemDropped(c.name, reason)
			c.logger.Debug("dropping provider item", slog.String("reason", reason), slog.String("title", a.Title))
			continue
		}
		kept = append(kept, a)
	}
	metrics.RecordArticlesMapped(c.name, len(kept))
	return &Result{Success: true, Articles: kept, Total: total}
}

/* ───── ヘルパ ───── */

// parseTime accepts the RFC 3339 variants the providers emit. Unknown formats yield the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
