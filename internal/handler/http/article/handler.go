package article

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/logging"
	artUC "news-aggregator/internal/usecase/article"
	"news-aggregator/internal/usecase/bookmark"
)

// Catalogue is the read side of the article store.
type Catalogue interface {
	List(ctx context.Context, source, category string, params pagination.Params) (*artUC.Page, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	Search(ctx context.Context, q string, params pagination.Params) (*artUC.Page, string, error)
	Filter(ctx context.Context, in artUC.FilterInput, params pagination.Params) (*artUC.Page, error)
	Personalized(ctx context.Context, userID int64, params pagination.Params) (*artUC.Page, error)
}

// Bookmarks manages saved articles.
type Bookmarks interface {
	Save(ctx context.Context, userID, articleID int64) (bool, error)
	Remove(ctx context.Context, userID, articleID int64) error
	List(ctx context.Context, userID int64, params pagination.Params) (*bookmark.Page, error)
	IsSaved(ctx context.Context, userID, articleID int64) (bool, error)
}

type Handler struct {
	Articles      Catalogue
	Bookmarks     Bookmarks
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	l := h.Logger
	if l == nil {
		l = slog.Default()
	}
	return logging.WithRequestID(r.Context(), l)
}

// params parses page and limit, writing a 400 on failure.
func (h Handler) params(w http.ResponseWriter, r *http.Request, resource string) (pagination.Params, bool) {
	p, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError(resource, "validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return p, false
	}
	return p, true
}

// page writes a list response and records the pagination metrics.
func (h Handler) page(w http.ResponseWriter, resource string, start time.Time, params pagination.Params, data any, meta pagination.Metadata) {
	pagination.RecordRequest(resource, http.StatusOK, params.Page)
	pagination.RecordDuration(resource, time.Since(start).Seconds())
	respond.Page(w, data, meta)
}

// fail maps use case errors to responses.
func (h Handler) fail(w http.ResponseWriter, r *http.Request, resource string, err error) {
	switch {
	case errors.Is(err, artUC.ErrArticleNotFound), errors.Is(err, bookmark.ErrArticleNotFound):
		respond.Fail(w, http.StatusNotFound, "Article not found")
	case errors.Is(err, bookmark.ErrNotSaved):
		respond.Fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, artUC.ErrEmptyQuery),
		errors.Is(err, artUC.ErrInvalidDateRange),
		errors.Is(err, artUC.ErrInvalidArticleID):
		respond.Fail(w, http.StatusBadRequest, err.Error())
	default:
		pagination.RecordError(resource, "database")
		h.logger(r).Error("article request failed",
			slog.String("resource", resource),
			slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
