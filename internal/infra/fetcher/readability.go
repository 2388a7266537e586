package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"

	"news-aggregator/internal/config"
	"news-aggregator/internal/resilience/circuitbreaker"
	"news-aggregator/internal/usecase/aggregate"
)

const userAgent = "NewsAggregatorBot/1.0"

// Readability implements aggregate.ContentFetcher. Safe for concurrent use.
type Readability struct {
	http    *resty.Client
	breaker *circuitbreaker.CircuitBreaker
	cfg     config.ContentConfig
	lookup  func(string) ([]net.IP, error)
}

func NewReadability(cfg config.ContentConfig) *Readability {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = 10 << 20
	}
	f := &Readability{
		breaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		cfg:     cfg,
		lookup:  net.LookupIP,
	}
	f.http = resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
			if len(via) > f.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", aggregate.ErrTooManyRedirects, len(via))
			}
			// リダイレクト先も検証する
			return validateURL(req.URL.String(), f.cfg.DenyPrivateIPs, f.lookup)
		}))
	return f
}

// FetchContent downloads rawURL and returns its main text.
func (f *Readability) FetchContent(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL, f.cfg.DenyPrivateIPs, f.lookup); err != nil {
		return "", err
	}
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetch(ctx, rawURL)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (f *Readability) fetch(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			if ue.Timeout() {
				return "", fmt.Errorf("%w: exceeded %v", aggregate.ErrTimeout, f.cfg.Timeout)
			}
			return "", ue.Err
		}
		return "", fmt.Errorf("get %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode())
	}

	html, err := io.ReadAll(io.LimitReader(body, f.cfg.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(html)) > f.cfg.MaxBodySize {
		return "", fmt.Errorf("%w: limit %d bytes", aggregate.ErrBodyTooLarge, f.cfg.MaxBodySize)
	}

	pageURL := resp.RawResponse.Request.URL
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", aggregate.ErrReadabilityFailed, err)
	}
	if article.TextContent == "" {
		return "", fmt.Errorf("%w: no readable content", aggregate.ErrReadabilityFailed)
	}
	return article.TextContent, nil
}
