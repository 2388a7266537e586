package auth

import "net/http"

// Register mounts the account routes under /api/auth.
func Register(mux *http.ServeMux, h Handler, mw *Middleware) {
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.Handle("POST /api/auth/logout", mw.Required(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/auth/me", mw.Required(http.HandlerFunc(h.Me)))
	mux.Handle("PUT /api/auth/profile", mw.Required(http.HandlerFunc(h.UpdateProfile)))
	mux.Handle("PUT /api/auth/change-password", mw.Required(http.HandlerFunc(h.ChangePassword)))
}
