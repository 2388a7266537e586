// Package article provides the read side of the article catalogue: listing,
// keyword search, field filters and the personalized feed.
package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/utils/text"
)

// Page is one page of articles with its pagination metadata.
type Page struct {
	Articles   []*entity.Article
	Pagination pagination.Metadata
}

// FilterInput narrows the catalogue. Empty fields do not restrict.
type FilterInput struct {
	Source   string
	Category string
	Author   string
	From     *time.Time
	To       *time.Time
}

type Service struct {
	Repo        repository.ArticleRepository
	Preferences repository.PreferenceRepository
}

func (s *Service) page(ctx context.Context, op string, filter repository.ArticleFilter, params pagination.Params) (*Page, error) {
	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}
	articles, err := s.Repo.ListPaginated(ctx, filter, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Page{Articles: articles, Pagination: pagination.NewMetadata(params, total)}, nil
}

// List returns articles newest first, optionally restricted to one source and category.
func (s *Service) List(ctx context.Context, source, category string, params pagination.Params) (*Page, error) {
	return s.page(ctx, "list articles", repository.ArticleFilter{
		Sources:    nonEmpty(source),
		Categories: nonEmpty(category),
	}, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// SanitizeQuery trims the query and removes angle brackets.
func SanitizeQuery(q string) string {
	return strings.TrimSpace(text.StripChars(q, "<>"))
}

// Search matches the sanitized query against title, description and content.
// It returns the sanitized query alongside the results.
func (s *Service) Search(ctx context.Context, q string, params pagination.Params) (*Page, string, error) {
	q = SanitizeQuery(q)
	if q == "" {
		return nil, "", ErrEmptyQuery
	}
	p, err := s.page(ctx, "search articles", repository.ArticleFilter{Keyword: q}, params)
	if err != nil {
		return nil, "", err
	}
	return p, q, nil
}

// Filter applies every non-empty field with AND semantics.
func (s *Service) Filter(ctx context.Context, in FilterInput, params pagination.Params) (*Page, error) {
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, ErrInvalidDateRange
	}
	return s.page(ctx, "filter articles", repository.ArticleFilter{
		Sources:    nonEmpty(in.Source),
		Categories: nonEmpty(in.Category),
		Authors:    nonEmpty(in.Author),
		From:       in.From,
		To:         in.To,
	}, params)
}

// Personalized returns articles matching any of the user's preferred sources,
// categories or authors. Without preferences the feed is the plain list.
func (s *Service) Personalized(ctx context.Context, userID int64, params pagination.Params) (*Page, error) {
	pref, err := s.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("personalized feed: preferences: %w", err)
	}
	filter := repository.ArticleFilter{}
	if !pref.IsEmpty() {
		filter = repository.ArticleFilter{
			Sources:    pref.PreferredSources,
			Categories: pref.PreferredCategories,
			Authors:    pref.PreferredAuthors,
			MatchAny:   true,
		}
	}
	return s.page(ctx, "personalized feed", filter, params)
}

func nonEmpty(v string) []string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return []string{v}
}
