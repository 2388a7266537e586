package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*entity.APILog
	err  error
}

func (f *fakeLogRepo) Create(_ context.Context, l *entity.APILog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeLogRepo) List(context.Context, repository.APILogFilter, int, int) ([]*entity.APILog, error) {
	return nil, nil
}

func (f *fakeLogRepo) Count(context.Context, repository.APILogFilter) (int64, error) { return 0, nil }

func (f *fakeLogRepo) StatsSince(context.Context, time.Time) ([]entity.APIStat, error) {
	return nil, nil
}

func (f *fakeLogRepo) DeleteOlderThan(context.Context, time.Time) (int64, error) { return 0, nil }

func (f *fakeLogRepo) entries() []*entity.APILog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.APILog(nil), f.logs...)
}

// serve starts a test server answering every request with status and body,
// and captures the last request for assertions.
func serve(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	captured := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = *r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func testConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Timeout:  2 * time.Second,
		PageSize: 10,
	}
}
