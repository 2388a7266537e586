// Package auth serves the account endpoints and provides the bearer token
// middleware used by every protected route.
package auth

import (
	"time"

	"news-aggregator/internal/domain/entity"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255" example:"Jane Doe"`
	Email    string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"s3cret-pass"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required" example:"jane@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
}

type profileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=255" example:"Jane D."`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"jane.d@example.com"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"new_password_confirmation" validate:"required"`
}

// UserDTO is the public view of an account.
type UserDTO struct {
	ID        int64     `json:"id" example:"1"`
	Name      string    `json:"name" example:"Jane Doe"`
	Email     string    `json:"email" example:"jane@example.com"`
	Role      string    `json:"role" example:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionDTO is returned by register and login.
type SessionDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func toUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
