package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

// ArticleFilter contains optional filters for article listing.
// Empty slices and nil pointers mean "no restriction".
type ArticleFilter struct {
	Sources    []string   // Optional: exact source_name match
	Categories []string   // Optional: exact category match
	Authors    []string   // Optional: case-insensitive partial author match
	From       *time.Time // Optional: published_at >= From
	To         *time.Time // Optional: published_at <= To
	Keyword    string     // Optional: matched against title, description and content
	// MatchAny ORs the source, category and author conditions instead of ANDing them.
	// The personalized feed uses it.
	MatchAny bool
}

type ArticleRepository interface {
	// BulkInsertIgnoreDuplicates inserts all articles in one statement and
	// silently skips rows whose URL already exists.
	// Returns the number of rows actually inserted.
	BulkInsertIgnoreDuplicates(ctx context.Context, articles []*entity.Article) (int64, error)
	// Get returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// ListPaginated returns articles ordered by published_at DESC.
	ListPaginated(ctx context.Context, filter ArticleFilter, offset, limit int) ([]*entity.Article, error)
	Count(ctx context.Context, filter ArticleFilter) (int64, error)
	CountBySource(ctx context.Context) ([]entity.SourceCount, error)
	DistinctSourceNames(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}
