package article

import (
	"net/http"
	"time"

	"news-aggregator/internal/handler/http/auth"
)

// Personalized
// @Summary      パーソナライズドフィード
// @Description  ユーザーの設定 (ソース・カテゴリ・著者) のいずれかに一致する記事を返します。設定が空なら通常の一覧です。
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "ページ番号" default(1)
// @Param        limit  query  int  false  "1ページあたりの件数" default(20)
// @Success      200 {object} respond.Envelope{data=[]DTO,pagination=pagination.Metadata}
// @Failure      401 {object} respond.Envelope
// @Router       /articles/personalized [get]
func (h Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, ok := h.params(w, r, "articles_personalized")
	if !ok {
		return
	}
	p := auth.PrincipalFrom(r.Context())
	res, err := h.Articles.Personalized(r.Context(), p.UserID, params)
	if err != nil {
		h.fail(w, r, "articles_personalized", err)
		return
	}
	h.page(w, "articles_personalized", start, params, toDTOs(res.Articles), res.Pagination)
}

// Saved
// @Summary      保存した記事
// @Description  保存日時の新しい順に返します。
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "ページ番号" default(1)
// @Param        limit  query  int  false  "1ページあたりの件数" default(20)
// @Success      200 {object} respond.Envelope{data=[]SavedDTO,pagination=pagination.Metadata}
// @Failure      401 {object} respond.Envelope
// @Router       /articles/saved [get]
func (h Handler) Saved(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, ok := h.params(w, r, "articles_saved")
	if !ok {
		return
	}
	p := auth.PrincipalFrom(r.Context())
	res, err := h.Bookmarks.List(r.Context(), p.UserID, params)
	if err != nil {
		h.fail(w, r, "articles_saved", err)
		return
	}
	h.page(w, "articles_saved", start, params, toSavedDTOs(res.Articles), res.Pagination)
}
