package aggregate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/repository"
)

const statsWindow = 24 * time.Hour

// Stats is the admin overview of stored articles and provider usage.
type Stats struct {
	TotalArticles int64
	BySource      []entity.SourceCount
	APIStats      []entity.APIStat
	Since         time.Time
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	since := s.now().Add(-statsWindow)
	out := &Stats{Since: since}

	var err error
	if out.TotalArticles, err = s.articles.Count(ctx, repository.ArticleFilter{}); err != nil {
		return nil, fmt.Errorf("stats: count articles: %w", err)
	}
	if out.BySource, err = s.articles.CountBySource(ctx); err != nil {
		return nil, fmt.Errorf("stats: count by source: %w", err)
	}
	if out.APIStats, err = s.apiLogs.StatsSince(ctx, since); err != nil {
		return nil, fmt.Errorf("stats: api logs: %w", err)
	}
	return out, nil
}

type APITestStatus string

const (
	APINotConfigured APITestStatus = "not_configured"
	APIWorking       APITestStatus = "working"
	APIError         APITestStatus = "error"
)

// APITestResult is the outcome of probing one provider.
type APITestResult struct {
	Provider string
	Status   APITestStatus
	Message  string
	Articles int
}

// TestAllAPIs probes every provider with a single-article request.
// Results follow the registry order.
func (s *Service) TestAllAPIs(ctx context.Context) []APITestResult {
	statuses := s.registry.Status()
	byName := make(map[string]provider.Source)
	for _, src := range s.registry.Sources() {
		byName[src.Name()] = src
	}

	results := make([]APITestResult, len(statuses))
	var g errgroup.Group
	for i, st := range statuses {
		src, ok := byName[st.Name]
		if !st.Configured || !ok {
			results[i] = APITestResult{Provider: st.Name, Status: APINotConfigured, Message: "API key not configured"}
			continue
		}
		g.Go(func() error {
			res, err := src.Fetch(ctx, provider.FetchOptions{PageSize: 1})
			if err != nil {
				results[i] = APITestResult{Provider: st.Name, Status: APIError, Message: err.Error()}
				return nil
			}
			results[i] = APITestResult{Provider: st.Name, Status: APIWorking, Message: "OK", Articles: len(res.Articles)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
