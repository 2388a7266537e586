package repository

import (
	"context"

	"news-aggregator/internal/domain/entity"
)

type UserRepository interface {
	// Create fills in ID and timestamps. Returns entity.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error
	// GetByID returns (nil, nil) if the user is not found.
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// GetByEmail returns (nil, nil) if the user is not found.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role string) error
}

type PreferenceRepository interface {
	// Get returns (nil, nil) when the user has no preference row yet.
	Get(ctx context.Context, userID int64) (*entity.Preference, error)
	Create(ctx context.Context, pref *entity.Preference) error
	// Update overwrites only the non-nil lists and returns the stored row.
	Update(ctx context.Context, userID int64, sources, categories, authors []string) (*entity.Preference, error)
}

type SavedArticleRepository interface {
	// Save reports created=false when the pair already exists.
	Save(ctx context.Context, userID, articleID int64) (created bool, err error)
	// Delete reports false when nothing was removed.
	Delete(ctx context.Context, userID, articleID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.SavedArticle, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	IsSaved(ctx context.Context, userID, articleID int64) (bool, error)
}
