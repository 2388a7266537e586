package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type PreferenceRepo struct {
	db      *sql.DB
	typeMap *pgtype.Map
}

func NewPreferenceRepo(db *sql.DB) repository.PreferenceRepository {
	return &PreferenceRepo{db: db, typeMap: pgtype.NewMap()}
}

func (repo *PreferenceRepo) scan(row rowScanner, p *entity.Preference) error {
	return row.Scan(&p.UserID,
		repo.typeMap.SQLScanner(&p.PreferredSources),
		repo.typeMap.SQLScanner(&p.PreferredCategories),
		repo.typeMap.SQLScanner(&p.PreferredAuthors),
		&p.CreatedAt, &p.UpdatedAt)
}

func (repo *PreferenceRepo) Get(ctx context.Context, userID int64) (*entity.Preference, error) {
	const query = `
SELECT user_id, preferred_sources, preferred_categories, preferred_authors, created_at, updated_at
FROM preferences
WHERE user_id = $1`
	var p entity.Preference
	err := repo.scan(repo.db.QueryRowContext(ctx, query, userID), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &p, nil
}

func (repo *PreferenceRepo) Create(ctx context.Context, pref *entity.Preference) error {
	const query = `
INSERT INTO preferences (user_id, preferred_sources, preferred_categories, preferred_authors)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO NOTHING
RETURNING created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query, pref.UserID,
		nonNil(pref.PreferredSources), nonNil(pref.PreferredCategories), nonNil(pref.PreferredAuthors)).
		Scan(&pref.CreatedAt, &pref.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update upserts the row. A nil list keeps the stored value.
func (repo *PreferenceRepo) Update(ctx context.Context, userID int64, sources, categories, authors []string) (*entity.Preference, error) {
	const query = `
INSERT INTO preferences (user_id, preferred_sources, preferred_categories, preferred_authors)
VALUES ($1, COALESCE($2::text[], '{}'), COALESCE($3::text[], '{}'), COALESCE($4::text[], '{}'))
ON CONFLICT (user_id) DO UPDATE SET
    preferred_sources    = COALESCE($2::text[], preferences.preferred_sources),
    preferred_categories = COALESCE($3::text[], preferences.preferred_categories),
    preferred_authors    = COALESCE($4::text[], preferences.preferred_authors),
    updated_at           = now()
RETURNING user_id, preferred_sources, preferred_categories, preferred_authors, created_at, updated_at`
	var p entity.Preference
	if err := repo.scan(repo.db.QueryRowContext(ctx, query, userID, sources, categories, authors), &p); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return &p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
