package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"news-aggregator/internal/handler/http/respond"
	authsvc "news-aggregator/internal/service/auth"
)

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*authsvc.Claims, error)
}

// Middleware guards routes with bearer token authentication.
type Middleware struct {
	auth   Authenticator
	logger *slog.Logger
}

func NewMiddleware(a Authenticator, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{auth: a, logger: logger}
}

var errMissingToken = errors.New("missing bearer token")

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

func (m *Middleware) principal(r *http.Request) (*Principal, error) {
	raw, ok := bearer(r)
	if !ok {
		recordTokenCheck("missing")
		return nil, errMissingToken
	}
	claims, err := m.auth.Authenticate(r.Context(), raw)
	if err != nil {
		if errors.Is(err, authsvc.ErrTokenRevoked) {
			recordTokenCheck("revoked")
		} else {
			recordTokenCheck("invalid")
		}
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		recordTokenCheck("invalid")
		return nil, err
	}
	recordTokenCheck("valid")
	return &Principal{UserID: id, Email: claims.Email, Role: claims.Role, Claims: claims}, nil
}

// Required rejects requests without a valid, unrevoked token with 401.
func (m *Middleware) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := m.principal(r)
		if err != nil {
			m.unauthorized(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Optional attaches the caller when a valid token is present and otherwise
// serves the request anonymously.
func (m *Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, err := m.principal(r); err == nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly is Required plus a role=admin check. Non-admins get 403.
func (m *Middleware) AdminOnly(next http.Handler) http.Handler {
	return m.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := PrincipalFrom(r.Context())
		if !p.IsAdmin() {
			RecordForbiddenAttempt(r.Method)
			m.logger.Warn("admin route denied",
				slog.Int64("user_id", p.UserID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			respond.Fail(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *Middleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Authentication required"
	switch {
	case errors.Is(err, authsvc.ErrTokenRevoked):
		msg = "Token has been revoked"
	case !errors.Is(err, errMissingToken):
		msg = "Invalid or expired token"
	}
	m.logger.Debug("authentication failed",
		slog.String("path", r.URL.Path),
		slog.String("error", respond.SanitizeError(err)))
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	respond.Fail(w, http.StatusUnauthorized, msg)
}
