// Package apilog serves the admin views over the provider call log.
package apilog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

const (
	DefaultStatsDays   = 7
	DefaultCleanupDays = 30
	DefaultLimit       = 50
)

var ErrInvalidDays = errors.New("days must be a positive integer")

type Page struct {
	Logs       []*entity.APILog
	Pagination pagination.Metadata
}

// StatsReport is the per-provider summary over the last Days days.
type StatsReport struct {
	Days  int
	Since time.Time
	Stats []entity.APIStat
}

type Service struct {
	Repo repository.APILogRepository
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) List(ctx context.Context, filter repository.APILogFilter, params pagination.Params) (*Page, error) {
	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list api logs: count: %w", err)
	}
	logs, err := s.Repo.List(ctx, filter, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list api logs: %w", err)
	}
	return &Page{Logs: logs, Pagination: pagination.NewMetadata(params, total)}, nil
}

// Stats summarizes calls per provider. days <= 0 means the default window.
func (s *Service) Stats(ctx context.Context, days int) (*StatsReport, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	since := s.now().AddDate(0, 0, -days)
	stats, err := s.Repo.StatsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("api log stats: %w", err)
	}
	return &StatsReport{Days: days, Since: since, Stats: stats}, nil
}

// Cleanup deletes log rows older than days and returns how many were removed.
func (s *Service) Cleanup(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, ErrInvalidDays
	}
	n, err := s.Repo.DeleteOlderThan(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		return 0, fmt.Errorf("cleanup api logs: %w", err)
	}
	return n, nil
}
