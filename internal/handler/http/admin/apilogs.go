package admin

import (
	"net/http"
	"strings"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/bind"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/usecase/apilog"
)

func (h Handler) logPagination() pagination.Config {
	return h.PaginationCfg.WithDefaultLimit(apilog.DefaultLimit)
}

func (h Handler) listLogs(w http.ResponseWriter, r *http.Request, source string) {
	start := time.Now()
	params, err := pagination.ParseQueryParams(r, h.logPagination())
	if err != nil {
		pagination.RecordError("api_logs", "validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	from, err := bind.Date(q.Get("startDate"), false)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "startDate: "+err.Error())
		return
	}
	to, err := bind.Date(q.Get("endDate"), true)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "endDate: "+err.Error())
		return
	}
	page, err := h.Logs.List(r.Context(), repository.APILogFilter{
		Source: strings.ToLower(strings.TrimSpace(source)),
		From:   from,
		To:     to,
	}, params)
	if err != nil {
		pagination.RecordError("api_logs", "database")
		h.internal(w, r, "list api logs", err)
		return
	}
	pagination.RecordRequest("api_logs", http.StatusOK, params.Page)
	pagination.RecordDuration("api_logs", time.Since(start).Seconds())
	respond.Page(w, toLogDTOs(page.Logs), page.Pagination)
}

// ListLogs
// @Summary      API 呼び出しログ一覧
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        source     query  string  false  "プロバイダ (newsapi, gnews, guardian, nyt)"
// @Param        startDate  query  string  false  "開始日"
// @Param        endDate    query  string  false  "終了日"
// @Param        page       query  int     false  "ページ番号" default(1)
// @Param        limit      query  int     false  "件数" default(50)
// @Success      200 {object} respond.Envelope{data=[]APILogDTO,pagination=pagination.Metadata}
// @Router       /admin/api-logs [get]
func (h Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	h.listLogs(w, r, r.URL.Query().Get("source"))
}

// LogsBySource
// @Summary      プロバイダ別 API ログ
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        source  path   string  true   "プロバイダ"
// @Param        page    query  int     false  "ページ番号" default(1)
// @Param        limit   query  int     false  "件数" default(50)
// @Success      200 {object} respond.Envelope{data=[]APILogDTO,pagination=pagination.Metadata}
// @Router       /admin/api-logs/{source} [get]
func (h Handler) LogsBySource(w http.ResponseWriter, r *http.Request) {
	h.listLogs(w, r, r.PathValue("source"))
}

// LogStats
// @Summary      API ログ統計
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        days  query  int  false  "集計日数" default(7)
// @Success      200 {object} respond.Envelope{data=LogStatsDTO}
// @Router       /admin/api-logs/stats [get]
func (h Handler) LogStats(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", apilog.DefaultStatsDays)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, err := h.Logs.Stats(r.Context(), days)
	if err != nil {
		h.internal(w, r, "api log stats", err)
		return
	}
	respond.OK(w, http.StatusOK, "", LogStatsDTO{Days: rep.Days, Since: rep.Since, Stats: toAPIStatDTOs(rep.Stats)})
}

// CleanupLogs
// @Summary      古い API ログの削除
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        days  query  int  false  "保持日数" default(30)
// @Success      200 {object} respond.Envelope{data=CleanupDTO}
// @Router       /admin/api-logs/cleanup [delete]
func (h Handler) CleanupLogs(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", apilog.DefaultCleanupDays)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := h.Logs.Cleanup(r.Context(), days)
	if err != nil {
		h.internal(w, r, "api log cleanup", err)
		return
	}
	h.logger(r).Info("api logs cleaned up", "days", days, "deleted", n)
	respond.OK(w, http.StatusOK, "Old API logs deleted", CleanupDTO{Days: days, Deleted: n})
}

// Register mounts the admin routes. Every route requires the admin role.
func Register(mux *http.ServeMux, h Handler, mw interface {
	AdminOnly(http.Handler) http.Handler
}) {
	admin := func(f http.HandlerFunc) http.Handler { return mw.AdminOnly(f) }
	mux.Handle("GET /api/admin/stats", admin(h.Stats))
	mux.Handle("POST /api/admin/fetch", admin(h.Fetch))
	mux.Handle("GET /api/admin/test-apis", admin(h.TestAPIs))
	mux.Handle("GET /api/admin/api-logs", admin(h.ListLogs))
	mux.Handle("GET /api/admin/api-logs/stats", admin(h.LogStats))
	mux.Handle("DELETE /api/admin/api-logs/cleanup", admin(h.CleanupLogs))
	mux.Handle("GET /api/admin/api-logs/{source}", admin(h.LogsBySource))
}
