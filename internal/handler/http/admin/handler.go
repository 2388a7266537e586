package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/usecase/aggregate"
	"news-aggregator/internal/usecase/apilog"
)

// Aggregator runs and reports on aggregation.
type Aggregator interface {
	Stats(ctx context.Context) (*aggregate.Stats, error)
	FetchAndSave(ctx context.Context, opts aggregate.Options) (*aggregate.RunResult, error)
	FetchByCategory(ctx context.Context, category string, limit int) (*aggregate.RunResult, error)
	TestAllAPIs(ctx context.Context) []aggregate.APITestResult
}

// APILogs is the provider call log use case.
type APILogs interface {
	List(ctx context.Context, filter repository.APILogFilter, params pagination.Params) (*apilog.Page, error)
	Stats(ctx context.Context, days int) (*apilog.StatsReport, error)
	Cleanup(ctx context.Context, days int) (int64, error)
}

// ProviderStatus reports the configured providers and their breaker state.
type ProviderStatus interface {
	Status() []provider.Status
}

type Handler struct {
	Aggregator    Aggregator
	Logs          APILogs
	Providers     ProviderStatus
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	l := h.Logger
	if l == nil {
		l = slog.Default()
	}
	l = logging.WithRequestID(r.Context(), l)
	if p := auth.PrincipalFrom(r.Context()); p != nil {
		l = l.With(slog.Int64("admin_id", p.UserID))
	}
	return l
}

func (h Handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger(r).Error(op+" failed", slog.String("error", respond.SanitizeError(err)))
	respond.SafeError(w, http.StatusInternalServerError, err)
}

// intQuery reads an optional positive integer query value.
func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}

// Stats
// @Summary      集計統計
// @Description  記事総数、ソース別件数、直近24時間のプロバイダ呼び出し統計を返します。
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=StatsDTO}
// @Failure      401 {object} respond.Envelope
// @Failure      403 {object} respond.Envelope
// @Router       /admin/stats [get]
func (h Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Aggregator.Stats(r.Context())
	if err != nil {
		h.internal(w, r, "admin stats", err)
		return
	}
	dto := StatsDTO{
		TotalArticles: st.TotalArticles,
		BySource:      make([]SourceCountDTO, 0, len(st.BySource)),
		APIStats:      toAPIStatDTOs(st.APIStats),
		Since:         st.Since,
	}
	for _, sc := range st.BySource {
		dto.BySource = append(dto.BySource, SourceCountDTO{SourceName: sc.SourceName, Count: sc.Count})
	}
	if h.Providers != nil {
		dto.Providers = h.Providers.Status()
	}
	respond.OK(w, http.StatusOK, "", dto)
}

// Fetch
// @Summary      手動集計
// @Description  全プロバイダから記事を取得して保存します。category 指定時はそのカテゴリのみ。
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        category  query  string  false  "カテゴリ (tech, biz などの別名可)"
// @Param        q         query  string  false  "キーワード"
// @Param        limit     query  int     false  "プロバイダごとの件数" default(10)
// @Success      200 {object} respond.Envelope{data=RunDTO}
// @Failure      400 {object} respond.Envelope
// @Failure      503 {object} respond.Envelope "No news API keys configured"
// @Router       /admin/fetch [post]
func (h Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", aggregate.DefaultLimit)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))

	query := strings.TrimSpace(q.Get("q"))

	var res *aggregate.RunResult
	if category != "" && query == "" {
		res, err = h.Aggregator.FetchByCategory(r.Context(), category, limit)
	} else {
		opts := aggregate.Options{Query: query, Limit: limit}
		if category != "" {
			opts.Category = aggregate.NormalizeCategory(category)
		}
		res, err = h.Aggregator.FetchAndSave(r.Context(), opts)
	}
	if errors.Is(err, aggregate.ErrNoSourcesConfigured) {
		respond.Fail(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.internal(w, r, "manual fetch", err)
		return
	}
	h.logger(r).Info("manual fetch completed",
		slog.String("category", category),
		slog.Int("saved", res.Saved),
		slog.Int("skipped", res.Skipped))
	respond.OK(w, http.StatusOK, "Fetch completed", toRunDTO(res))
}

// TestAPIs
// @Summary      プロバイダ疎通確認
// @Description  各プロバイダに1件だけリクエストし、not_configured / working / error を返します。
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=[]APITestDTO}
// @Router       /admin/test-apis [get]
func (h Handler) TestAPIs(w http.ResponseWriter, r *http.Request) {
	results := h.Aggregator.TestAllAPIs(r.Context())
	out := make([]APITestDTO, 0, len(results))
	for _, res := range results {
		out = append(out, APITestDTO{
			Provider: res.Provider,
			Status:   string(res.Status),
			Message:  res.Message,
			Articles: res.Articles,
		})
	}
	respond.OK(w, http.StatusOK, "", out)
}
