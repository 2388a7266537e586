package article

import (
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/handler/http/bind"
	"news-aggregator/internal/handler/http/respond"
	artUC "news-aggregator/internal/usecase/article"
)

// List 記事一覧取得
// @Summary      記事一覧取得（ページネーション対応）
// @Description  保存されている記事を公開日時の新しい順に返します。source / category で絞り込めます。
// @Tags         articles
// @Produce      json
// @Param        page      query  int     false  "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit     query  int     false  "1ページあたりの件数" default(20) minimum(1) maximum(100)
// @Param        source    query  string  false  "ソース名 (完全一致)"
// @Param        category  query  string  false  "カテゴリ"
// @Success      200 {object} respond.Envelope{data=[]DTO,pagination=pagination.Metadata}
// @Failure      400 {object} respond.Envelope "Invalid query parameters"
// @Failure      500 {object} respond.Envelope
// @Router       /articles [get]
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, ok := h.params(w, r, "articles")
	if !ok {
		return
	}
	q := r.URL.Query()
	res, err := h.Articles.List(r.Context(), q.Get("source"), q.Get("category"), params)
	if err != nil {
		h.fail(w, r, "articles", err)
		return
	}
	h.page(w, "articles", start, params, toDTOs(res.Articles), res.Pagination)
}

// Search キーワード検索
// @Summary      記事検索
// @Description  タイトル・概要・本文をキーワードで検索します。< と > は除去されます。
// @Tags         articles
// @Produce      json
// @Param        q      query  string  true   "検索キーワード"
// @Param        page   query  int     false  "ページ番号" default(1)
// @Param        limit  query  int     false  "1ページあたりの件数" default(20)
// @Success      200 {object} respond.Envelope{data=[]DTO,pagination=pagination.Metadata}
// @Failure      400 {object} respond.Envelope "Search query is required"
// @Router       /articles/search [get]
func (h Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, ok := h.params(w, r, "articles_search")
	if !ok {
		return
	}
	res, query, err := h.Articles.Search(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		h.fail(w, r, "articles_search", err)
		return
	}
	h.logger(r).Debug("article search",
		slog.String("query", query),
		slog.Int64("total", res.Pagination.TotalItems))
	h.page(w, "articles_search", start, params, toDTOs(res.Articles), res.Pagination)
}

// Filter 条件絞り込み
// @Summary      記事フィルタ
// @Description  source, category, author, 公開日の範囲を AND で適用します。
// @Tags         articles
// @Produce      json
// @Param        source     query  string  false  "ソース名"
// @Param        category   query  string  false  "カテゴリ"
// @Param        author     query  string  false  "著者 (部分一致)"
// @Param        startDate  query  string  false  "開始日 (YYYY-MM-DD or RFC3339)"
// @Param        endDate    query  string  false  "終了日 (YYYY-MM-DD or RFC3339)"
// @Param        page       query  int     false  "ページ番号" default(1)
// @Param        limit      query  int     false  "1ページあたりの件数" default(20)
// @Success      200 {object} respond.Envelope{data=[]DTO,pagination=pagination.Metadata}
// @Failure      400 {object} respond.Envelope
// @Router       /articles/filter [get]
func (h Handler) Filter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, ok := h.params(w, r, "articles_filter")
	if !ok {
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
	res, err := h.Articles.Filter(r.Context(), artUC.FilterInput{
		Source:   q.Get("source"),
		Category: q.Get("category"),
		Author:   q.Get("author"),
		From:     from,
		To:       to,
	}, params)
	if err != nil {
		h.fail(w, r, "articles_filter", err)
		return
	}
	h.page(w, "articles_filter", start, params, toDTOs(res.Articles), res.Pagination)
}
