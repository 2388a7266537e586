package entity

import (
	"strings"
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can log in, keep preferences and save articles.
// Users are never hard-deleted.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Preference holds a user's feed filters. Values are free-form strings
// matched against article fields, not foreign keys.
type Preference struct {
	UserID              int64
	PreferredSources    []string
	PreferredCategories []string
	PreferredAuthors    []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsEmpty reports whether no preference list has any value.
func (p *Preference) IsEmpty() bool {
	return p == nil ||
		len(p.PreferredSources) == 0 && len(p.PreferredCategories) == 0 && len(p.PreferredAuthors) == 0
}
