package aggregate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/observability/metrics"
)

// enrichContent replaces short provider content with the extracted article text.
// Failures keep the provider content.
func (s *Service) enrichContent(ctx context.Context, articles []*entity.Article) {
	if s.content == nil || len(articles) == 0 {
		return
	}
	sem := semaphore.NewWeighted(int64(s.contentCfg.Parallelism))
	var wg sync.WaitGroup
	for _, a := range articles {
		if len(a.Content) >= s.contentCfg.Threshold {
			metrics.RecordContentFetchSkipped()
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			a.Content = s.enhanceContent(ctx, a)
		}()
	}
	wg.Wait()
}

func (s *Service) enhanceContent(ctx context.Context, a *entity.Article) string {
	start := time.Now()
	full, err := s.content.FetchContent(ctx, a.URL)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Warn("content fetch failed, keeping provider content",
			slog.String("url", a.URL),
			slog.Any("error", err),
			slog.Duration("fetch_duration", elapsed))
		metrics.RecordContentFetchFailed(elapsed)
		return a.Content
	}
	metrics.RecordContentFetchSuccess(elapsed)

	// 抽出結果が短い場合は元の本文を使う
	if len(full) > len(a.Content) {
		return full
	}
	s.logger.Debug("fetched content shorter than provider content",
		slog.String("url", a.URL),
		slog.Int("provider_length", len(a.Content)),
		slog.Int("fetched_length", len(full)))
	return a.Content
}
