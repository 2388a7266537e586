package article

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	authsvc "news-aggregator/internal/service/auth"
	artUC "news-aggregator/internal/usecase/article"
	"news-aggregator/internal/usecase/bookmark"
)

/* ───── stubs ───── */

type stubCatalogue struct {
	articles []*entity.Article
	err      error

	lastFilter artUC.FilterInput
	lastUser   int64
	lastParams pagination.Params
}

func (s *stubCatalogue) page(params pagination.Params) *artUC.Page {
	s.lastParams = params
	return &artUC.Page{Articles: s.articles, Pagination: pagination.NewMetadata(params, int64(len(s.articles)))}
}

func (s *stubCatalogue) List(_ context.Context, _, _ string, params pagination.Params) (*artUC.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.page(params), nil
}

func (s *stubCatalogue) Get(_ context.Context, id int64) (*entity.Article, error) {
	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, artUC.ErrArticleNotFound
}

func (s *stubCatalogue) Search(_ context.Context, q string, params pagination.Params) (*artUC.Page, string, error) {
	q = artUC.SanitizeQuery(q)
	if q == "" {
		return nil, "", artUC.ErrEmptyQuery
	}
	return s.page(params), q, nil
}

func (s *stubCatalogue) Filter(_ context.Context, in artUC.FilterInput, params pagination.Params) (*artUC.Page, error) {
	s.lastFilter = in
	return s.page(params), nil
}

func (s *stubCatalogue) Personalized(_ context.Context, userID int64, params pagination.Params) (*artUC.Page, error) {
	s.lastUser = userID
	return s.page(params), nil
}

type stubBookmarks struct {
	saved map[int64]bool
	known map[int64]bool
}

func (b *stubBookmarks) Save(_ context.Context, _, articleID int64) (bool, error) {
	if !b.known[articleID] {
		return false, bookmark.ErrArticleNotFound
	}
	if b.saved[articleID] {
		return false, nil
	}
	b.saved[articleID] = true
	return true, nil
}

func (b *stubBookmarks) Remove(_ context.Context, _, articleID int64) error {
	if !b.saved[articleID] {
		return bookmark.ErrNotSaved
	}
	delete(b.saved, articleID)
	return nil
}

func (b *stubBookmarks) List(_ context.Context, _ int64, params pagination.Params) (*bookmark.Page, error) {
	var out []*entity.SavedArticle
	for id := range b.saved {
		out = append(out, &entity.SavedArticle{Article: entity.Article{ID: id}, SavedAt: time.Now()})
	}
	return &bookmark.Page{Articles: out, Pagination: pagination.NewMetadata(params, int64(len(out)))}, nil
}

func (b *stubBookmarks) IsSaved(_ context.Context, _, articleID int64) (bool, error) {
	return b.saved[articleID], nil
}

type userAuth struct{}

func (userAuth) Authenticate(_ context.Context, raw string) (*authsvc.Claims, error) {
	if raw != "good" {
		return nil, authsvc.ErrInvalidToken
	}
	return &authsvc.Claims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: "42", ID: "j"}}, nil
}

type fixture struct {
	mux       *http.ServeMux
	catalogue *stubCatalogue
	bookmarks *stubBookmarks
}

func newFixture() *fixture {
	cat := &stubCatalogue{articles: []*entity.Article{
		{ID: 1, Title: "One", URL: "https://example.com/1", SourceName: "BBC News", PublishedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "Two", URL: "https://example.com/2", SourceName: "CNN"},
	}}
	bm := &stubBookmarks{saved: map[int64]bool{}, known: map[int64]bool{1: true, 2: true}}
	mux := http.NewServeMux()
	Register(mux, Handler{Articles: cat, Bookmarks: bm, PaginationCfg: pagination.DefaultConfig()},
		auth.NewMiddleware(userAuth{}, nil))
	return &fixture{mux: mux, catalogue: cat, bookmarks: bm}
}

func (f *fixture) do(t *testing.T, method, target, token string) (*httptest.ResponseRecorder, respond.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	var env respond.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

/* ───── tests ───── */

func TestList(t *testing.T) {
	f := newFixture()
	rec, env := f.do(t, http.MethodGet, "/api/articles?page=1&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Len(t, env.Data, 2)
	meta := env.Pagination.(map[string]any)
	assert.EqualValues(t, 5, meta["itemsPerPage"])
	assert.EqualValues(t, 2, meta["totalItems"])

	first := env.Data.([]any)[0].(map[string]any)
	assert.Equal(t, "BBC News", first["source_name"])
	assert.NotContains(t, first, "is_saved")
}

func TestList_BadPagination(t *testing.T) {
	f := newFixture()
	for _, q := range []string{"page=0", "limit=101", "page=abc", "page=922337203685477581&limit=20"} {
		rec, env := f.do(t, http.MethodGet, "/api/articles?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.False(t, env.Success)
	}
}

func TestList_StorageError(t *testing.T) {
	f := newFixture()
	f.catalogue.err = errors.New("pq: connection refused postgres://app:hunter2@db")
	rec, env := f.do(t, http.MethodGet, "/api/articles", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestSearch(t *testing.T) {
	f := newFixture()
	rec, env := f.do(t, http.MethodGet, "/api/articles/search?q=%20%3C%3E%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query is required", env.Message)

	rec, _ = f.do(t, http.MethodGet, "/api/articles/search?q=climate", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFilter(t *testing.T) {
	f := newFixture()
	rec, _ := f.do(t, http.MethodGet, "/api/articles/filter?author=smith&startDate=2026-01-01&endDate=2026-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "smith", f.catalogue.lastFilter.Author)
	require.NotNil(t, f.catalogue.lastFilter.To)
	assert.Equal(t, 23, f.catalogue.lastFilter.To.Hour())

	rec, env := f.do(t, http.MethodGet, "/api/articles/filter?startDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(env.Message, "startDate"))
}

func TestPersonalized_RequiresAuth(t *testing.T) {
	f := newFixture()
	rec, _ := f.do(t, http.MethodGet, "/api/articles/personalized", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/articles/personalized", "good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), f.catalogue.lastUser)
}

func TestGet(t *testing.T) {
	f := newFixture()
	f.bookmarks.saved[1] = true

	rec, env := f.do(t, http.MethodGet, "/api/articles/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, env.Data.(map[string]any), "is_saved")

	_, env = f.do(t, http.MethodGet, "/api/articles/1", "good")
	assert.Equal(t, true, env.Data.(map[string]any)["is_saved"])

	rec, env = f.do(t, http.MethodGet, "/api/articles/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", env.Message)

	rec, _ = f.do(t, http.MethodGet, "/api/articles/-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveAndUnsave(t *testing.T) {
	f := newFixture()

	rec, env := f.do(t, http.MethodPost, "/api/articles/2/save", "good")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, env.Data.(map[string]any)["created"])

	rec, env = f.do(t, http.MethodPost, "/api/articles/2/save", "good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Article already saved", env.Message)
	assert.Equal(t, false, env.Data.(map[string]any)["created"])

	rec, _ = f.do(t, http.MethodPost, "/api/articles/77/save", "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = f.do(t, http.MethodGet, "/api/articles/saved", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.Data, 1)
	assert.Contains(t, env.Data.([]any)[0].(map[string]any), "saved_at")

	rec, _ = f.do(t, http.MethodDelete, "/api/articles/2/save", "good")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = f.do(t, http.MethodDelete, "/api/articles/2/save", "good")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Saved article not found", env.Message)
}
