package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type SavedArticleRepo struct {
	db *sql.DB
}

func NewSavedArticleRepo(db *sql.DB) repository.SavedArticleRepository {
	return &SavedArticleRepo{db: db}
}

// Save inserts the pair and reports whether a new row was created.
func (repo *SavedArticleRepo) Save(ctx context.Context, userID, articleID int64) (bool, error) {
	const query = `
INSERT INTO saved_articles (user_id, article_id)
VALUES ($1, $2)
ON CONFLICT (user_id, article_id) DO NOTHING
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, query, userID, articleID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("Save: %w", err)
	}
	return true, nil
}

func (repo *SavedArticleRepo) Delete(ctx context.Context, userID, articleID int64) (bool, error) {
	const query = `DELETE FROM saved_articles WHERE user_id = $1 AND article_id = $2`
	res, err := repo.db.ExecContext(ctx, query, userID, articleID)
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	return n > 0, nil
}

// ListByUser returns the user's saved articles, most recently saved first.
func (repo *SavedArticleRepo) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.SavedArticle, error) {
	const query = `
SELECT a.id, a.title, a.description, a.content, a.author, a.source_name, a.category,
       a.published_at, a.url, a.url_to_image, a.source_id, a.created_at, a.updated_at,
       s.saved_at
FROM saved_articles s
INNER JOIN articles a ON a.id = s.article_id
WHERE s.user_id = $1
ORDER BY s.saved_at DESC
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*entity.SavedArticle, 0, limit)
	for rows.Next() {
		var s entity.SavedArticle
		var publishedAt sql.NullTime
		a := &s.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Content, &a.Author,
			&a.SourceName, &a.Category, &publishedAt, &a.URL, &a.URLToImage,
			&a.SourceID, &a.CreatedAt, &a.UpdatedAt, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("ListByUser: Scan: %w", err)
		}
		if publishedAt.Valid {
			a.PublishedAt = publishedAt.Time
		}
		result = append(result, &s)
	}
	return result, rows.Err()
}

func (repo *SavedArticleRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM saved_articles WHERE user_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByUser: %w", err)
	}
	return count, nil
}

func (repo *SavedArticleRepo) IsSaved(ctx context.Context, userID, articleID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM saved_articles WHERE user_id = $1 AND article_id = $2)`
	var saved bool
	if err := repo.db.QueryRowContext(ctx, query, userID, articleID).Scan(&saved); err != nil {
		return false, fmt.Errorf("IsSaved: %w", err)
	}
	return saved, nil
}
