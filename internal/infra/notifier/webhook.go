package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"news-aggregator/internal/resilience/circuitbreaker"
)

// RateLimitError is a 429 from the webhook.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is any other 4xx from the webhook.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("webhook rejected message: status %d: %s", e.StatusCode, e.Message)
}

// ServerError is a 5xx from the webhook.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("webhook server error: status %d", e.StatusCode)
}

// webhook posts JSON payloads to a single URL.
type webhook struct {
	name    string
	url     string
	client  *resty.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
}

func newWebhook(name, rawURL string, timeout time.Duration) *webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &webhook{
		name: name,
		url:  rawURL,
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Content-Type", "application/json"),
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		breaker: circuitbreaker.New(circuitbreaker.WebhookConfig(name)),
	}
}

func (w *webhook) Name() string { return w.name }

func (w *webhook) post(ctx context.Context, payload any) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", w.name, err)
	}
	_, err := w.breaker.Execute(func() (interface{}, error) {
		resp, err := w.client.R().SetContext(ctx).SetBody(payload).Post(w.url)
		if err != nil {
			// Webhook URL にはトークンが含まれる
			var ue *url.Error
			if errors.As(err, &ue) {
				return nil, fmt.Errorf("post webhook: %w", ue.Err)
			}
			return nil, err
		}
		switch status := resp.StatusCode(); {
		case status == 429:
			secs, _ := strconv.Atoi(resp.Header().Get("Retry-After"))
			return nil, &RateLimitError{RetryAfter: time.Duration(secs) * time.Second}
		case status >= 500:
			return nil, &ServerError{StatusCode: status}
		case status >= 400:
			return nil, &ClientError{StatusCode: status, Message: string(resp.Body())}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", w.name, err)
	}
	return nil
}
