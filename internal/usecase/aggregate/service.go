package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/notifier"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/internal/repository"
)

const (
	DefaultLimit  = 10
	gnewsMaxLimit = 10
)

// Registry lists the provider adapters.
type Registry interface {
	// Sources returns the adapters with an API key.
	Sources() []provider.Source
	// Status returns every known provider, configured or not.
	Status() []provider.Status
}

// Options select what is fetched from each provider.
type Options struct {
	Category string
	Query    string
	Limit    int
}

// Report is the merged outcome of one fan-out.
type Report struct {
	Articles          []*entity.Article
	Fetched           int // before de-duplication
	Unique            int
	DuplicatesRemoved int
	SourcesSuccessful int
	SourcesFailed     int
	SourcesTotal      int
	Failures          map[string]string // provider -> error message
}

type SaveResult struct {
	Saved   int
	Skipped int
}

// RunResult summarizes a fetch-and-save run.
type RunResult struct {
	Success  bool
	Fetched  int
	Unique   int
	Saved    int
	Skipped  int
	Duration time.Duration
	Report   *Report
}

type Service struct {
	registry   Registry
	articles   repository.ArticleRepository
	apiLogs    repository.APILogRepository
	content    ContentFetcher
	contentCfg ContentConfig
	notifiers  []notifier.Notifier
	logger     *slog.Logger
	now        func() time.Time
	notifyWG   sync.WaitGroup
}

// NewService wires the aggregator. contentFetcher and notifiers may be nil.
func NewService(
	registry Registry,
	articleRepo repository.ArticleRepository,
	apiLogRepo repository.APILogRepository,
	contentFetcher ContentFetcher,
	contentCfg ContentConfig,
	notifiers []notifier.Notifier,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if contentCfg.Parallelism <= 0 {
		contentCfg.Parallelism = 5
	}
	return &Service{
		registry:   registry,
		articles:   articleRepo,
		apiLogs:    apiLogRepo,
		content:    contentFetcher,
		contentCfg: contentCfg,
		notifiers:  notifiers,
		logger:     logger,
		now:        time.Now,
	}
}

// requestFor maps the aggregate options onto one provider's parameters.
func requestFor(name string, opts Options) provider.FetchOptions {
	req := provider.FetchOptions{Query: opts.Query, PageSize: opts.Limit}
	switch name {
	case config.ProviderGNews:
		req.Category = opts.Category
		req.PageSize = min(opts.Limit, gnewsMaxLimit)
	case config.ProviderGuardian:
		req.Section = opts.Category
	case config.ProviderNYT:
		req.Section = opts.Category
		if req.Section == "" {
			req.Section = "home"
		}
	default:
		req.Category = opts.Category
	}
	return req
}

type outcome struct {
	name   string
	result *provider.Result
	err    error
	seq    int64
}

// FetchFromAllSources queries every configured provider concurrently and
// waits for all of them. A failing provider is counted and logged; it never
// cancels the others. Articles are merged in completion order and
// de-duplicated by URL.
func (s *Service) FetchFromAllSources(ctx context.Context, opts Options) (*Report, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	sources := s.registry.Sources()
	if len(sources) == 0 {
		metrics.RecordAggregationFailure()
		return nil, ErrNoSourcesConfigured
	}

	ctx, span := tracing.Tracer().Start(ctx, "aggregate.FetchFromAllSources",
		trace.WithAttributes(
			attribute.String("aggregate.category", opts.Category),
			attribute.Int("aggregate.limit", opts.Limit),
			attribute.Int("aggregate.sources_total", len(sources)),
		))
	defer span.End()
	start := time.Now()

	var (
		g       errgroup.Group
		seq     atomic.Int64
		results = make([]outcome, len(sources))
	)
	for i, src := range sources {
		g.Go(func() error {
			res, err := src.Fetch(ctx, requestFor(src.Name(), opts))
			results[i] = outcome{name: src.Name(), result: res, err: err, seq: seq.Add(1)}
			return nil
		})
	}
	_ = g.Wait()

	slices.SortFunc(results, func(a, b outcome) int { return int(a.seq - b.seq) })

	report := &Report{SourcesTotal: len(sources), Failures: map[string]string{}}
	var merged []*entity.Article
	for _, o := range results {
		if o.err != nil || o.result == nil {
			msg := "no result"
			if o.err != nil {
				msg = respond.SanitizeError(o.err)
			}
			report.SourcesFailed++
			report.Failures[o.name] = msg
			s.logger.Warn("provider fetch failed",
				slog.String("provider", o.name),
				slog.String("error", msg))
			span.AddEvent("source.failed", trace.WithAttributes(
				attribute.String("provider", o.name)))
			continue
		}
		report.SourcesSuccessful++
		merged = append(merged, o.result.Articles...)
		span.AddEvent("source.completed", trace.WithAttributes(
			attribute.String("provider", o.name),
			attribute.Int("articles", len(o.result.Articles))))
	}

	report.Fetched = len(merged)
	report.Articles = DeduplicateByURL(merged)
	report.Unique = len(report.Articles)
	report.DuplicatesRemoved = report.Fetched - report.Unique

	duration := time.Since(start)
	metrics.RecordAggregation(duration, report.Fetched, report.DuplicatesRemoved, report.SourcesFailed)
	span.SetAttributes(
		attribute.Int("aggregate.sources_successful", report.SourcesSuccessful),
		attribute.Int("aggregate.sources_failed", report.SourcesFailed),
		attribute.Int("aggregate.unique", report.Unique),
	)
	s.logger.Info("fetched from all sources",
		slog.Int("successful", report.SourcesSuccessful),
		slog.Int("failed", report.SourcesFailed),
		slog.Int("total", report.SourcesTotal),
		slog.Int("fetched", report.Fetched),
		slog.Int("unique", report.Unique),
		slog.Duration("duration", duration))
	return report, nil
}

// DeduplicateByURL keeps the first article seen for each URL.
func DeduplicateByURL(articles []*entity.Article) []*entity.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]*entity.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SaveArticles bulk inserts articles; rows whose URL is already stored are skipped.
func (s *Service) SaveArticles(ctx context.Context, articles []*entity.Article) (SaveResult, error) {
	if len(articles) == 0 {
		return SaveResult{}, nil
	}
	n, err := s.articles.BulkInsertIgnoreDuplicates(ctx, articles)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save articles: %w", err)
	}
	res := SaveResult{Saved: int(n), Skipped: len(articles) - int(n)}
	metrics.RecordSave(n, int64(res.Skipped))
	s.logger.Info("articles saved",
		slog.Int("saved", res.Saved),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

// FetchAndSave runs a full aggregation: fetch, enrich short content, store.
func (s *Service) FetchAndSave(ctx context.Context, opts Options) (*RunResult, error) {
	start := time.Now()

	report, err := s.FetchFromAllSources(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.enrichContent(ctx, report.Articles)

	saved, err := s.SaveArticles(ctx, report.Articles)
	if err != nil {
		metrics.RecordAggregationFailure()
		s.notifyFailure(ctx, err)
		return nil, fmt.Errorf("fetch and save: %w", err)
	}

	if total, err := s.articles.Count(ctx, repository.ArticleFilter{}); err == nil {
		metrics.UpdateArticlesTotal(total)
	} else {
		s.logger.Warn("failed to count articles", slog.Any("error", err))
	}

	result := &RunResult{
		Success:  true,
		Fetched:  report.Fetched,
		Unique:   report.Unique,
		Saved:    saved.Saved,
		Skipped:  saved.Skipped,
		Duration: time.Since(start),
		Report:   report,
	}
	s.logger.Info("aggregation run completed",
		slog.Int("fetched", result.Fetched),
		slog.Int("saved", result.Saved),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration))
	s.notifyRun(ctx, result)
	return result, nil
}

var categoryAliases = map[string]string{
	"technology":    "technology",
	"tech":          "technology",
	"business":      "business",
	"biz":           "business",
	"sports":        "sports",
	"sport":         "sports",
	"entertainment": "entertainment",
	"health":        "health",
	"science":       "science",
	"general":       "general",
	"world":         "world",
	"nation":        "nation",
}

// NormalizeCategory resolves aliases; unknown categories become "general".
func NormalizeCategory(category string) string {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return "general"
}

// FetchByCategory fetches one normalized category from every provider and stores it.
func (s *Service) FetchByCategory(ctx context.Context, category string, limit int) (*RunResult, error) {
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidCategory
	}
	return s.FetchAndSave(ctx, Options{Category: NormalizeCategory(category), Limit: limit})
}
