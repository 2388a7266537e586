package aggregate

import (
	"context"
	"sync"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/notifier"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/repository"
)

func art(url string) *entity.Article {
	return &entity.Article{Title: "title " + url, URL: url, SourceName: "test"}
}

func arts(urls ...string) []*entity.Article {
	out := make([]*entity.Article, 0, len(urls))
	for _, u := range urls {
		out = append(out, art(u))
	}
	return out
}

/* ───── stubs ───── */

type stubSource struct {
	name     string
	articles []*entity.Article
	err      error
	delay    time.Duration

	mu  sync.Mutex
	got []provider.FetchOptions
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, opts provider.FetchOptions) (*provider.Result, error) {
	s.mu.Lock()
	s.got = append(s.got, opts)
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	n := len(s.articles)
	if opts.PageSize > 0 && opts.PageSize < n {
		n = opts.PageSize
	}
	return &provider.Result{Success: true, Articles: s.articles[:n], Total: len(s.articles)}, nil
}

func (s *stubSource) calls() []provider.FetchOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]provider.FetchOptions(nil), s.got...)
}

type stubRegistry struct {
	sources []provider.Source
	status  []provider.Status
}

func (r *stubRegistry) Sources() []provider.Source { return r.sources }
func (r *stubRegistry) Status() []provider.Status  { return r.status }

func registryOf(sources ...*stubSource) *stubRegistry {
	r := &stubRegistry{}
	for _, s := range sources {
		r.sources = append(r.sources, s)
		r.status = append(r.status, provider.Status{Name: s.name, Configured: true})
	}
	return r
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	stored   map[string]*entity.Article
	bulkCall int
	bulkErr  error
	bySource []entity.SourceCount
}

func newFakeArticleRepo(existing ...string) *fakeArticleRepo {
	r := &fakeArticleRepo{stored: map[string]*entity.Article{}}
	for _, u := range existing {
		r.stored[u] = art(u)
	}
	return r
}

func (r *fakeArticleRepo) BulkInsertIgnoreDuplicates(_ context.Context, articles []*entity.Article) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bulkCall++
	if r.bulkErr != nil {
		return 0, r.bulkErr
	}
	var n int64
	for _, a := range articles {
		if _, ok := r.stored[a.URL]; ok {
			continue
		}
		r.stored[a.URL] = a
		n++
	}
	return n, nil
}

func (r *fakeArticleRepo) Get(context.Context, int64) (*entity.Article, error) { return nil, nil }

func (r *fakeArticleRepo) ListPaginated(context.Context, repository.ArticleFilter, int, int) ([]*entity.Article, error) {
	return nil, nil
}

func (r *fakeArticleRepo) Count(context.Context, repository.ArticleFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stored)), nil
}

func (r *fakeArticleRepo) CountBySource(context.Context) ([]entity.SourceCount, error) {
	return r.bySource, nil
}

func (r *fakeArticleRepo) DistinctSourceNames(context.Context) ([]string, error) { return nil, nil }
func (r *fakeArticleRepo) DistinctCategories(context.Context) ([]string, error)  { return nil, nil }

type fakeAPILogRepo struct {
	stats []entity.APIStat
	since time.Time
}

func (r *fakeAPILogRepo) Create(context.Context, *entity.APILog) error { return nil }

func (r *fakeAPILogRepo) List(context.Context, repository.APILogFilter, int, int) ([]*entity.APILog, error) {
	return nil, nil
}

func (r *fakeAPILogRepo) Count(context.Context, repository.APILogFilter) (int64, error) { return 0, nil }

func (r *fakeAPILogRepo) StatsSince(_ context.Context, since time.Time) ([]entity.APIStat, error) {
	r.since = since
	return r.stats, nil
}

func (r *fakeAPILogRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

type stubContentFetcher struct {
	mu      sync.Mutex
	content map[string]string
	err     error
	called  []string
}

func (f *stubContentFetcher) FetchContent(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = append(f.called, url)
	if f.err != nil {
		return "", f.err
	}
	return f.content[url], nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notifier.Message
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, msg notifier.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func newTestService(reg Registry, repo *fakeArticleRepo, opts ...func(*Service)) *Service {
	s := NewService(reg, repo, &fakeAPILogRepo{}, nil, ContentConfig{}, nil, nil)
	for _, o := range opts {
		o(s)
	}
	return s
}
