// Package auth implements account registration, password login and JWT
// session handling. Passwords are stored as bcrypt hashes; tokens are HS256
// JWTs that can be revoked before expiry through a Denylist.
package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new password and confirmation do not match")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)
