package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	authsvc "news-aggregator/internal/service/auth"
)

type fakeAuthenticator struct {
	claims *authsvc.Claims
	err    error
}

func (f fakeAuthenticator) Authenticate(context.Context, string) (*authsvc.Claims, error) {
	return f.claims, f.err
}

func claimsFor(sub, role string) *authsvc.Claims {
	return &authsvc.Claims{
		Email: "u@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func whoami(w http.ResponseWriter, r *http.Request) {
	if p := PrincipalFrom(r.Context()); p != nil {
		w.Header().Set("X-User", p.Email)
	}
	w.WriteHeader(http.StatusNoContent)
}

func TestRequired(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		auth     fakeAuthenticator
		wantCode int
	}{
		{"no header", "", fakeAuthenticator{}, http.StatusUnauthorized},
		{"basic scheme", "Basic abc", fakeAuthenticator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer x", fakeAuthenticator{err: authsvc.ErrInvalidToken}, http.StatusUnauthorized},
		{"revoked", "Bearer x", fakeAuthenticator{err: authsvc.ErrTokenRevoked}, http.StatusUnauthorized},
		{"bad subject", "Bearer x", fakeAuthenticator{claims: claimsFor("abc", "user")}, http.StatusUnauthorized},
		{"valid", "Bearer x", fakeAuthenticator{claims: claimsFor("7", "user")}, http.StatusNoContent},
		{"lowercase scheme", "bearer x", fakeAuthenticator{claims: claimsFor("7", "user")}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewMiddleware(tt.auth, nil)
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.Required(http.HandlerFunc(whoami)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			} else {
				assert.Equal(t, "u@example.com", rec.Header().Get("X-User"))
			}
		})
	}
}

func TestOptional(t *testing.T) {
	anon := NewMiddleware(fakeAuthenticator{err: errors.New("bad")}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	anon.Optional(http.HandlerFunc(whoami)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User"))

	known := NewMiddleware(fakeAuthenticator{claims: claimsFor("3", "user")}, nil)
	rec = httptest.NewRecorder()
	known.Optional(http.HandlerFunc(whoami)).ServeHTTP(rec, req)
	assert.Equal(t, "u@example.com", rec.Header().Get("X-User"))
}

func TestAdminOnly(t *testing.T) {
	srv := newServer(t, "root@example.com")
	admin := registerUser(t, srv, "root@example.com")
	user := registerUser(t, srv, "user@example.com")

	code, _ := call(t, srv, http.MethodGet, "/api/admin/ping", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := call(t, srv, http.MethodGet, "/api/admin/ping", user, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", env.Message)

	code, _ = call(t, srv, http.MethodGet, "/api/admin/ping", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
