package aggregate

import (
	"context"
	"errors"
)

// ContentFetcher extracts the readable text of an article page.
//
// Implementations must refuse private addresses, bound the body size and
// the number of redirects, and honour ctx.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Errors returned by ContentFetcher implementations.
var (
	ErrInvalidURL        = errors.New("invalid URL or unsupported scheme")
	ErrPrivateIP         = errors.New("private IP access denied (SSRF prevention)")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrBodyTooLarge      = errors.New("response body too large")
	ErrTimeout           = errors.New("request timeout")
	ErrReadabilityFailed = errors.New("content extraction failed")
)

// ContentConfig controls enrichment of articles whose provider content is short.
type ContentConfig struct {
	Threshold   int // provider content at least this long (bytes) is kept as is
	Parallelism int
}
