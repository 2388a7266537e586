package auth

import (
	"context"

	"news-aggregator/internal/domain/entity"
	authsvc "news-aggregator/internal/service/auth"
)

type ctxKey struct{}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UserID int64
	Email  string
	Role   string
	// Claims are the verified token claims, needed to revoke the token on logout.
	Claims *authsvc.Claims
}

// IsAdmin reports whether the caller carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == entity.RoleAdmin
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom returns the caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxKey{}).(*Principal)
	return p
}
