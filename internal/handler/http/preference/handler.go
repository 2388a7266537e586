// Package preference serves the per-user feed preference endpoints.
package preference

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/bind"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/logging"
	prefUC "news-aggregator/internal/usecase/preference"
)

// Preferences is the preference use case.
type Preferences interface {
	Get(ctx context.Context, userID int64) (*entity.Preference, bool, error)
	Update(ctx context.Context, userID int64, in prefUC.UpdateInput) (*entity.Preference, error)
	AvailableSources(ctx context.Context) ([]string, error)
	AvailableCategories(ctx context.Context) ([]string, error)
}

type Handler struct {
	Svc    Preferences
	Logger *slog.Logger
}

// DTO is the JSON view of a user's preferences.
type DTO struct {
	UserID              int64     `json:"user_id" example:"1"`
	PreferredSources    []string  `json:"preferred_sources" example:"The Guardian,BBC News"`
	PreferredCategories []string  `json:"preferred_categories" example:"technology,science"`
	PreferredAuthors    []string  `json:"preferred_authors"`
	IsNew               bool      `json:"isNew,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// updateRequest leaves a list untouched when it is omitted.
type updateRequest struct {
	PreferredSources    []string `json:"preferred_sources" validate:"omitempty,max=50,dive,max=255"`
	PreferredCategories []string `json:"preferred_categories" validate:"omitempty,max=50,dive,max=100"`
	PreferredAuthors    []string `json:"preferred_authors" validate:"omitempty,max=50,dive,max=255"`
}

func toDTO(p *entity.Preference, isNew bool) DTO {
	return DTO{
		UserID:              p.UserID,
		PreferredSources:    orEmpty(p.PreferredSources),
		PreferredCategories: orEmpty(p.PreferredCategories),
		PreferredAuthors:    orEmpty(p.PreferredAuthors),
		IsNew:               isNew,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (h Handler) internal(w http.ResponseWriter, r *http.Request, err error) {
	l := h.Logger
	if l == nil {
		l = slog.Default()
	}
	logging.WithRequestID(r.Context(), l).Error("preference request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", respond.SanitizeError(err)))
	respond.SafeError(w, http.StatusInternalServerError, err)
}

// Get
// @Summary      ユーザー設定取得
// @Description  初回アクセス時は空の設定を作成し isNew=true を返します。
// @Tags         preferences
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      401 {object} respond.Envelope
// @Router       /preferences [get]
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFrom(r.Context())
	pref, isNew, err := h.Svc.Get(r.Context(), p.UserID)
	if err != nil {
		h.internal(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, "", toDTO(pref, isNew))
}

// Update
// @Summary      ユーザー設定更新
// @Description  指定されたリストのみ置き換えます。空配列はリストをクリアします。
// @Tags         preferences
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body updateRequest true "更新するリスト"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.Envelope
// @Failure      401 {object} respond.Envelope
// @Router       /preferences [put]
func (h Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !bind.JSON(w, r, &req) {
		return
	}
	p := auth.PrincipalFrom(r.Context())
	pref, err := h.Svc.Update(r.Context(), p.UserID, prefUC.UpdateInput{
		Sources:    req.PreferredSources,
		Categories: req.PreferredCategories,
		Authors:    req.PreferredAuthors,
	})
	if err != nil {
		h.internal(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, "Preferences updated successfully", toDTO(pref, false))
}

// Sources
// @Summary      選択可能なソース一覧
// @Tags         preferences
// @Produce      json
// @Success      200 {object} respond.Envelope{data=[]string}
// @Router       /preferences/sources [get]
func (h Handler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Svc.AvailableSources(r.Context())
	if err != nil {
		h.internal(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, "", sources)
}

// Categories
// @Summary      選択可能なカテゴリ一覧
// @Tags         preferences
// @Produce      json
// @Success      200 {object} respond.Envelope{data=[]string}
// @Router       /preferences/categories [get]
func (h Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.AvailableCategories(r.Context())
	if err != nil {
		h.internal(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, "", cats)
}

// Register mounts the preference routes under /api/preferences.
func Register(mux *http.ServeMux, h Handler, mw *auth.Middleware) {
	mux.Handle("GET /api/preferences", mw.Required(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/preferences", mw.Required(http.HandlerFunc(h.Update)))
	mux.HandleFunc("GET /api/preferences/sources", h.Sources)
	mux.HandleFunc("GET /api/preferences/categories", h.Categories)
}
