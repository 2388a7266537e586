package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type APILogRepo struct {
	db *sql.DB
}

func NewAPILogRepo(db *sql.DB) repository.APILogRepository {
	return &APILogRepo{db: db}
}

func (repo *APILogRepo) Create(ctx context.Context, log *entity.APILog) error {
	const query = `
INSERT INTO api_logs (api_source, endpoint, status_code, response_time_ms, error_message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`
	if err := repo.db.QueryRowContext(ctx, query, log.APISource, log.Endpoint, log.StatusCode,
		log.ResponseTimeMS, log.ErrorMessage).Scan(&log.ID, &log.CreatedAt); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func apiLogWhere(filter repository.APILogFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Source != "" {
		args = append(args, filter.Source)
		conds = append(conds, fmt.Sprintf("api_source = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (repo *APILogRepo) List(ctx context.Context, filter repository.APILogFilter, offset, limit int) ([]*entity.APILog, error) {
	where, args := apiLogWhere(filter)
	n := len(args)
	query := fmt.Sprintf(`
SELECT id, api_source, endpoint, status_code, response_time_ms, error_message, created_at
FROM api_logs
%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`, where, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.APILog, 0, limit)
	for rows.Next() {
		var l entity.APILog
		if err := rows.Scan(&l.ID, &l.APISource, &l.Endpoint, &l.StatusCode,
			&l.ResponseTimeMS, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

func (repo *APILogRepo) Count(ctx context.Context, filter repository.APILogFilter) (int64, error) {
	where, args := apiLogWhere(filter)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM api_logs "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// StatsSince aggregates calls per provider made at or after since.
func (repo *APILogRepo) StatsSince(ctx context.Context, since time.Time) ([]entity.APIStat, error) {
	const query = `
SELECT api_source,
       COUNT(*),
       COUNT(*) FILTER (WHERE status_code >= 400 OR error_message IS NOT NULL),
       COALESCE(AVG(response_time_ms), 0),
       COALESCE(MAX(response_time_ms), 0)
FROM api_logs
WHERE created_at >= $1
GROUP BY api_source
ORDER BY api_source`
	rows, err := repo.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("StatsSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []entity.APIStat
	for rows.Next() {
		var s entity.APIStat
		if err := rows.Scan(&s.Source, &s.TotalCalls, &s.ErrorCalls, &s.AvgResponseMS, &s.MaxResponseMS); err != nil {
			return nil, fmt.Errorf("StatsSince: Scan: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (repo *APILogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM api_logs WHERE created_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return n, nil
}
