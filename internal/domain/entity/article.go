// Package entity defines the core domain entities of the news aggregator.
// It contains articles collected from the news providers, users with their
// feed preferences and saved articles, and the provider call log, together
// with their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// Article represents a normalized news article collected from one of the providers.
// URL is the sole identity used for de-duplication.
type Article struct {
	ID          int64
	Title       string
	Description string
	Content     string
	Author      string
	SourceName  string
	Category    *string
	PublishedAt time.Time
	URL         string
	URLToImage  string
	SourceID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required before an article can be stored.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return ValidateURL(a.URL)
}

// CategoryValue returns the category or an empty string when unset.
func (a *Article) CategoryValue() string {
	if a.Category == nil {
		return ""
	}
	return *a.Category
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SavedArticle is an article bookmarked by a user.
type SavedArticle struct {
	Article
	SavedAt time.Time
}
