package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// insertChunkSize keeps a single INSERT well below PostgreSQL's 65535 parameter limit.
const insertChunkSize = 500

const articleColumns = `id, title, description, content, author, source_name, category,
       published_at, url, url_to_image, source_id, created_at, updated_at`

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner, a *entity.Article) error {
	var publishedAt sql.NullTime
	if err := s.Scan(&a.ID, &a.Title, &a.Description, &a.Content, &a.Author,
		&a.SourceName, &a.Category, &publishedAt, &a.URL, &a.URLToImage,
		&a.SourceID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	if publishedAt.Valid {
		a.PublishedAt = publishedAt.Time
	}
	return nil
}

// BulkInsertIgnoreDuplicates inserts the articles in a single transaction using
// multi-row INSERT ... ON CONFLICT (url) DO NOTHING.
func (repo *ArticleRepo) BulkInsertIgnoreDuplicates(ctx context.Context, articles []*entity.Article) (int64, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("BulkInsertIgnoreDuplicates: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for start := 0; start < len(articles); start += insertChunkSize {
		end := min(start+insertChunkSize, len(articles))
		query, args := buildBulkInsert(articles[start:end])

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("BulkInsertIgnoreDuplicates: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("BulkInsertIgnoreDuplicates: RowsAffected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("BulkInsertIgnoreDuplicates: commit: %w", err)
	}
	return inserted, nil
}

func buildBulkInsert(articles []*entity.Article) (string, []interface{}) {
	const cols = 10
	var sb strings.Builder
	sb.WriteString(`INSERT INTO articles
    (title, description, content, author, source_name, category, published_at, url, url_to_image, source_id)
VALUES `)

	args := make([]interface{}, 0, len(articles)*cols)
	for i, a := range articles {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 1; c <= cols; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*cols+c)
		}
		sb.WriteByte(')')

		args = append(args, a.Title, a.Description, a.Content, a.Author, a.SourceName,
			a.Category, nullableTime(a.PublishedAt), a.URL, a.URLToImage, a.SourceID)
	}
	sb.WriteString("\nON CONFLICT (url) DO NOTHING")
	return sb.String(), args
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE id = $1
LIMIT 1`
	var article entity.Article
	err := scanArticle(repo.db.QueryRowContext(ctx, query, id), &article)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &article, nil
}

// ListPaginated retrieves a page of articles matching filter ordered by published_at DESC.
func (repo *ArticleRepo) ListPaginated(ctx context.Context, filter repository.ArticleFilter, offset, limit int) ([]*entity.Article, error) {
	where, args := repo.queryBuilder.BuildWhereClause(filter, "")
	n := len(args)
	query := fmt.Sprintf(`
SELECT %s
FROM articles
%s
ORDER BY published_at DESC NULLS LAST, id DESC
LIMIT $%d OFFSET $%d`, articleColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		var article entity.Article
		if err := scanArticle(rows, &article); err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}

// Count returns the number of articles matching filter.
func (repo *ArticleRepo) Count(ctx context.Context, filter repository.ArticleFilter) (int64, error) {
	where, args := repo.queryBuilder.BuildWhereClause(filter, "")
	query := "SELECT COUNT(*) FROM articles " + where

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) CountBySource(ctx context.Context) ([]entity.SourceCount, error) {
	const query = `
SELECT source_name, COUNT(*)
FROM articles
GROUP BY source_name
ORDER BY COUNT(*) DESC, source_name`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountBySource: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []entity.SourceCount
	for rows.Next() {
		var sc entity.SourceCount
		if err := rows.Scan(&sc.SourceName, &sc.Count); err != nil {
			return nil, fmt.Errorf("CountBySource: Scan: %w", err)
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) DistinctSourceNames(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT source_name
FROM articles
WHERE source_name <> ''
ORDER BY source_name`
	return repo.queryStrings(ctx, "DistinctSourceNames", query)
}

func (repo *ArticleRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT category
FROM articles
WHERE category IS NOT NULL AND category <> ''
ORDER BY category`
	return repo.queryStrings(ctx, "DistinctCategories", query)
}

func (repo *ArticleRepo) queryStrings(ctx context.Context, op, query string) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// nullableTime converts a zero time into a SQL NULL.
func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
