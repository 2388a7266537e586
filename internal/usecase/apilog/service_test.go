package apilog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type stubLogRepo struct {
	repository.APILogRepository
	since  time.Time
	cutoff time.Time
	filter repository.APILogFilter
}

func (r *stubLogRepo) StatsSince(_ context.Context, since time.Time) ([]entity.APIStat, error) {
	r.since = since
	return []entity.APIStat{{Source: "gnews", TotalCalls: 3}}, nil
}

func (r *stubLogRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return 12, nil
}

func (r *stubLogRepo) Count(_ context.Context, f repository.APILogFilter) (int64, error) {
	r.filter = f
	return 120, nil
}

func (r *stubLogRepo) List(context.Context, repository.APILogFilter, int, int) ([]*entity.APILog, error) {
	return []*entity.APILog{{ID: 1}}, nil
}

var fixed = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)

func TestStats_DefaultWindow(t *testing.T) {
	repo := &stubLogRepo{}
	svc := &Service{Repo: repo, Now: func() time.Time { return fixed }}

	r, err := svc.Stats(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultStatsDays, r.Days)
	assert.Equal(t, fixed.AddDate(0, 0, -7), repo.since)
	assert.Len(t, r.Stats, 1)
}

func TestCleanup(t *testing.T) {
	repo := &stubLogRepo{}
	svc := &Service{Repo: repo, Now: func() time.Time { return fixed }}

	n, err := svc.Cleanup(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, fixed.AddDate(0, 0, -30), repo.cutoff)

	_, err = svc.Cleanup(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestList(t *testing.T) {
	repo := &stubLogRepo{}
	p, err := (&Service{Repo: repo}).List(context.Background(),
		repository.APILogFilter{Source: "nyt"}, pagination.Params{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, "nyt", repo.filter.Source)
	assert.Equal(t, 3, p.Pagination.TotalPages)
}
