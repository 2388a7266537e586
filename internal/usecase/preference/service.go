// Package preference manages per-user feed preferences and the lists of
// sources and categories a user can choose from.
package preference

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// DefaultSources are offered even before any article has been stored.
var DefaultSources = []string{"GNews", "NewsAPI", "The Guardian", "The New York Times"}

// DefaultCategories mirror the categories the providers understand.
var DefaultCategories = []string{
	"business", "entertainment", "general", "health", "nation",
	"science", "sports", "technology", "world",
}

// UpdateInput replaces the lists that are non-nil. An empty non-nil list clears it.
type UpdateInput struct {
	Sources    []string
	Categories []string
	Authors    []string
}

type Service struct {
	Repo     repository.PreferenceRepository
	Articles repository.ArticleRepository
}

// Get returns the user's preferences, creating an empty row on first access.
// isNew reports whether the row was just created.
func (s *Service) Get(ctx context.Context, userID int64) (*entity.Preference, bool, error) {
	pref, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get preferences: %w", err)
	}
	if pref != nil {
		return pref, false, nil
	}
	pref = &entity.Preference{
		UserID:              userID,
		PreferredSources:    []string{},
		PreferredCategories: []string{},
		PreferredAuthors:    []string{},
	}
	if err := s.Repo.Create(ctx, pref); err != nil {
		return nil, false, fmt.Errorf("create preferences: %w", err)
	}
	return pref, true, nil
}

func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (*entity.Preference, error) {
	if _, _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	pref, err := s.Repo.Update(ctx, userID, clean(in.Sources), clean(in.Categories), clean(in.Authors))
	if err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return pref, nil
}

// AvailableSources merges stored source names with the defaults.
func (s *Service) AvailableSources(ctx context.Context) ([]string, error) {
	stored, err := s.Articles.DistinctSourceNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("available sources: %w", err)
	}
	return merge(DefaultSources, stored), nil
}

// AvailableCategories merges stored categories with the defaults.
func (s *Service) AvailableCategories(ctx context.Context) ([]string, error) {
	stored, err := s.Articles.DistinctCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("available categories: %w", err)
	}
	return merge(DefaultCategories, stored), nil
}

// clean trims values and drops blanks and duplicates. nil stays nil.
func clean(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func merge(a, b []string) []string {
	out := clean(append(slices.Clone(a), b...))
	slices.Sort(out)
	return out
}
