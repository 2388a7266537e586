// Package bookmark manages the articles a user has saved.
package bookmark

import (
	"context"
	"errors"
	"fmt"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

var (
	ErrArticleNotFound = errors.New("Article not found")
	ErrNotSaved        = errors.New("Saved article not found")
)

type Page struct {
	Articles   []*entity.SavedArticle
	Pagination pagination.Metadata
}

type Service struct {
	Saved    repository.SavedArticleRepository
	Articles repository.ArticleRepository
}

// Save bookmarks the article. created is false when it was already saved.
func (s *Service) Save(ctx context.Context, userID, articleID int64) (bool, error) {
	a, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return false, fmt.Errorf("save article: %w", err)
	}
	if a == nil {
		return false, ErrArticleNotFound
	}
	created, err := s.Saved.Save(ctx, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("save article: %w", err)
	}
	return created, nil
}

func (s *Service) Remove(ctx context.Context, userID, articleID int64) error {
	deleted, err := s.Saved.Delete(ctx, userID, articleID)
	if err != nil {
		return fmt.Errorf("remove saved article: %w", err)
	}
	if !deleted {
		return ErrNotSaved
	}
	return nil
}

// List returns the user's saved articles, most recently saved first.
func (s *Service) List(ctx context.Context, userID int64, params pagination.Params) (*Page, error) {
	total, err := s.Saved.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved articles: count: %w", err)
	}
	items, err := s.Saved.ListByUser(ctx, userID, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list saved articles: %w", err)
	}
	return &Page{Articles: items, Pagination: pagination.NewMetadata(params, total)}, nil
}

// IsSaved reports whether the user has bookmarked the article.
func (s *Service) IsSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	saved, err := s.Saved.IsSaved(ctx, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("is saved: %w", err)
	}
	return saved, nil
}
