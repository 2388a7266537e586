package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// Denylist remembers revoked token IDs until they expire.
type Denylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Session is returned by Register and Login.
type Session struct {
	User  *entity.User
	Token string
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// ProfileInput updates only the non-nil fields.
type ProfileInput struct {
	Name  *string
	Email *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type Service struct {
	users    repository.UserRepository
	tokens   *Tokens
	denylist Denylist
	admins   map[string]struct{}
	cost     int
}

func NewService(users repository.UserRepository, tokens *Tokens, denylist Denylist, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[entity.NormalizeEmail(e)] = struct{}{}
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		admins:   admins,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := entity.NormalizeEmail(in.Email)
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := entity.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &entity.ValidationError{Field: "name", Message: "name is required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         s.roleFor(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	slog.Info("user registered", slog.Int64("user_id", user.ID), slog.String("role", user.Role))
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &entity.ValidationError{Field: "credentials", Message: "email and password are required"}
	}
	user, err := s.users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	// ADMIN_EMAILS の変更はログイン時に反映する（昇格・降格の両方）
	if role := s.roleFor(user.Email); role != user.Role {
		if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
			return nil, fmt.Errorf("login: update role: %w", err)
		}
		slog.Info("user role changed", slog.Int64("user_id", user.ID),
			slog.String("from", user.Role), slog.String("to", role))
		user.Role = role
	}
	return s.session(user)
}

// roleFor derives the role from ADMIN_EMAILS. email must be normalized.
func (s *Service) roleFor(email string) string {
	if _, ok := s.admins[email]; ok {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}

func (s *Service) session(user *entity.User) (*Session, error) {
	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token}, nil
}

// Authenticate verifies a bearer token and checks the denylist.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check denylist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	exp := time.Now()
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, exp); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*entity.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &entity.ValidationError{Field: "name", Message: "name must not be empty"}
		}
		user.Name = name
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if err := entity.ValidateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}

	switch err := s.users.UpdateProfile(ctx, user); {
	case errors.Is(err, entity.ErrAlreadyExists):
		return nil, ErrEmailTaken
	case errors.Is(err, entity.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, in ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return &entity.ValidationError{Field: "password", Message: "current and new password are required"}
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := entity.ValidatePassword(in.NewPassword); err != nil {
		return err
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return ErrIncorrectPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
