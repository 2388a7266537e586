package article

import (
	"net/http"

	"news-aggregator/internal/handler/http/auth"
)

// Register mounts the article routes under /api/articles.
func Register(mux *http.ServeMux, h Handler, mw *auth.Middleware) {
	mux.HandleFunc("GET /api/articles", h.List)
	mux.HandleFunc("GET /api/articles/search", h.Search)
	mux.HandleFunc("GET /api/articles/filter", h.Filter)
	mux.Handle("GET /api/articles/personalized", mw.Required(http.HandlerFunc(h.Personalized)))
	mux.Handle("GET /api/articles/saved", mw.Required(http.HandlerFunc(h.Saved)))
	mux.Handle("GET /api/articles/{id}", mw.Optional(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/articles/{id}/save", mw.Required(http.HandlerFunc(h.Save)))
	mux.Handle("DELETE /api/articles/{id}/save", mw.Required(http.HandlerFunc(h.Unsave)))
}
