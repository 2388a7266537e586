package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

// APILogFilter narrows the admin log queries.
type APILogFilter struct {
	Source string
	From   *time.Time
	To     *time.Time
}

type APILogRepository interface {
	Create(ctx context.Context, log *entity.APILog) error
	List(ctx context.Context, filter APILogFilter, offset, limit int) ([]*entity.APILog, error)
	Count(ctx context.Context, filter APILogFilter) (int64, error)
	StatsSince(ctx context.Context, since time.Time) ([]entity.APIStat, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
