package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    content      TEXT NOT NULL DEFAULT '',
    author       TEXT NOT NULL DEFAULT '',
    source_name  TEXT NOT NULL DEFAULT '',
    category     TEXT,
    published_at TIMESTAMPTZ,
    url          TEXT NOT NULL UNIQUE,
    url_to_image TEXT NOT NULL DEFAULT '',
    source_id    TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name          TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS preferences (
    user_id              BIGINT PRIMARY KEY REFERENCES users(id),
    preferred_sources    TEXT[] NOT NULL DEFAULT '{}',
    preferred_categories TEXT[] NOT NULL DEFAULT '{}',
    preferred_authors    TEXT[] NOT NULL DEFAULT '{}',
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS saved_articles (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    saved_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, article_id)
)`,
	`CREATE TABLE IF NOT EXISTS api_logs (
    id               BIGSERIAL PRIMARY KEY,
    api_source       TEXT NOT NULL,
    endpoint         TEXT NOT NULL,
    status_code      INTEGER NOT NULL,
    response_time_ms BIGINT NOT NULL DEFAULT 0,
    error_message    TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

var indexes = []string{
	// 全一覧クエリで ORDER BY published_at DESC
	`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_source_name ON articles(source_name)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_articles_user ON saved_articles(user_id, saved_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_api_logs_source_created ON api_logs(api_source, created_at DESC)`,
}

// searchIndexes need pg_trgm and are best effort.
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_articles_title_gin ON articles USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_description_gin ON articles USING gin(description gin_trgm_ops)`,
}

// MigrateUp bootstraps the schema with CREATE ... IF NOT EXISTS statements.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("MigrateUp: %w", err)
		}
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("MigrateUp: index: %w", err)
		}
	}

	// pg_trgm拡張がない場合や権限不足の場合はエラーを無視
	_, _ = db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.ExecContext(ctx, idx)
	}

	return nil
}
