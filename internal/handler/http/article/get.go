package article

import (
	"log/slog"
	"net/http"

	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/pathutil"
	"news-aggregator/internal/handler/http/respond"
)

// Get
// @Summary      記事詳細
// @Description  認証済みの場合は is_saved を含みます。
// @Tags         articles
// @Produce      json
// @Param        id  path  int  true  "記事 ID"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.Envelope
// @Failure      404 {object} respond.Envelope "Article not found"
// @Router       /articles/{id} [get]
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid article id")
		return
	}
	a, err := h.Articles.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "article", err)
		return
	}
	dto := toDTO(a)
	if p := auth.PrincipalFrom(r.Context()); p != nil {
		saved, err := h.Bookmarks.IsSaved(r.Context(), p.UserID, id)
		if err != nil {
			// 付加情報なので失敗しても記事は返す
			h.logger(r).Warn("saved lookup failed", slog.String("error", respond.SanitizeError(err)))
		} else {
			dto.IsSaved = &saved
		}
	}
	respond.OK(w, http.StatusOK, "", dto)
}
