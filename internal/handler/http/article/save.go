package article

import (
	"net/http"

	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/pathutil"
	"news-aggregator/internal/handler/http/respond"
)

// Save
// @Summary      記事を保存
// @Description  既に保存済みなら 200 と created=false を返します。
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "記事 ID"
// @Success      201 {object} respond.Envelope{data=SaveResultDTO} "Article saved"
// @Success      200 {object} respond.Envelope{data=SaveResultDTO} "Article already saved"
// @Failure      404 {object} respond.Envelope "Article not found"
// @Router       /articles/{id}/save [post]
func (h Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid article id")
		return
	}
	p := auth.PrincipalFrom(r.Context())
	created, err := h.Bookmarks.Save(r.Context(), p.UserID, id)
	if err != nil {
		h.fail(w, r, "article_save", err)
		return
	}
	body := SaveResultDTO{ArticleID: id, Created: created}
	if !created {
		respond.OK(w, http.StatusOK, "Article already saved", body)
		return
	}
	respond.OK(w, http.StatusCreated, "Article saved successfully", body)
}

// Unsave
// @Summary      保存を解除
// @Tags         articles
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "記事 ID"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.Envelope "Saved article not found"
// @Router       /articles/{id}/save [delete]
func (h Handler) Unsave(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid article id")
		return
	}
	p := auth.PrincipalFrom(r.Context())
	if err := h.Bookmarks.Remove(r.Context(), p.UserID, id); err != nil {
		h.fail(w, r, "article_unsave", err)
		return
	}
	respond.OK(w, http.StatusOK, "Article removed from saved", nil)
}
