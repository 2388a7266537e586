package preference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type memPrefs struct {
	rows    map[int64]*entity.Preference
	creates int
}

func (m *memPrefs) Get(_ context.Context, userID int64) (*entity.Preference, error) {
	return m.rows[userID], nil
}

func (m *memPrefs) Create(_ context.Context, p *entity.Preference) error {
	m.creates++
	m.rows[p.UserID] = p
	return nil
}

func (m *memPrefs) Update(_ context.Context, userID int64, sources, categories, authors []string) (*entity.Preference, error) {
	p := m.rows[userID]
	if sources != nil {
		p.PreferredSources = sources
	}
	if categories != nil {
		p.PreferredCategories = categories
	}
	if authors != nil {
		p.PreferredAuthors = authors
	}
	return p, nil
}

type distinctRepo struct {
	repository.ArticleRepository
	sources    []string
	categories []string
}

func (r *distinctRepo) DistinctSourceNames(context.Context) ([]string, error) { return r.sources, nil }
func (r *distinctRepo) DistinctCategories(context.Context) ([]string, error)  { return r.categories, nil }

func TestGetOrCreate(t *testing.T) {
	repo := &memPrefs{rows: map[int64]*entity.Preference{}}
	svc := &Service{Repo: repo}

	p, isNew, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, int64(5), p.UserID)
	assert.NotNil(t, p.PreferredSources)

	_, isNew, err = svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, 1, repo.creates)
}

func TestUpdateOnlyProvidedLists(t *testing.T) {
	repo := &memPrefs{rows: map[int64]*entity.Preference{
		1: {UserID: 1, PreferredSources: []string{"BBC"}, PreferredAuthors: []string{"Jane"}},
	}}
	svc := &Service{Repo: repo}

	p, err := svc.Update(context.Background(), 1, UpdateInput{
		Categories: []string{" science ", "", "science", "health"},
		Authors:    []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BBC"}, p.PreferredSources)
	assert.Equal(t, []string{"science", "health"}, p.PreferredCategories)
	assert.Empty(t, p.PreferredAuthors)
}

func TestAvailable(t *testing.T) {
	svc := &Service{Articles: &distinctRepo{
		sources:    []string{"BBC News", "NewsAPI"},
		categories: []string{"politics", "science"},
	}}

	sources, err := svc.AvailableSources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BBC News", "GNews", "NewsAPI", "The Guardian", "The New York Times"}, sources)

	cats, err := svc.AvailableCategories(context.Background())
	require.NoError(t, err)
	assert.Contains(t, cats, "politics")
	assert.Contains(t, cats, "technology")
	assert.Len(t, cats, len(DefaultCategories)+1)
}
