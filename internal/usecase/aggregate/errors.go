// Package aggregate fans out to every configured news provider, merges and
// de-duplicates the results by URL and stores them.
package aggregate

import "errors"

var (
	// ErrNoSourcesConfigured is returned before any HTTP call when no provider has an API key.
	ErrNoSourcesConfigured = errors.New("No news API keys configured")

	// ErrInvalidCategory indicates an empty category was requested.
	ErrInvalidCategory = errors.New("category is required")
)
