// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"news-aggregator/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for article queries in PostgreSQL.
// This builder is shared between COUNT and SELECT queries to eliminate duplication.
// It uses PostgreSQL-specific features like ILIKE, = ANY() and numbered placeholders.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds a WHERE clause and its arguments from filter.
// Placeholders start at $1. Returns an empty clause when filter has no conditions.
//
// Source, category and author conditions are ANDed, or ORed as one group when
// filter.MatchAny is set. Date range and keyword conditions are always ANDed.
func (qb *ArticleQueryBuilder) BuildWhereClause(filter repository.ArticleFilter, tableAlias string) (clause string, args []interface{}) {
	col := func(name string) string {
		if tableAlias != "" {
			return tableAlias + "." + name
		}
		return name
	}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var listConds []string
	if len(filter.Sources) > 0 {
		listConds = append(listConds, fmt.Sprintf("%s = ANY(%s)", col("source_name"), next(filter.Sources)))
	}
	if len(filter.Categories) > 0 {
		listConds = append(listConds, fmt.Sprintf("%s = ANY(%s)", col("category"), next(filter.Categories)))
	}
	if len(filter.Authors) > 0 {
		patterns := make([]string, 0, len(filter.Authors))
		for _, a := range filter.Authors {
			patterns = append(patterns, "%"+EscapeILIKE(a)+"%")
		}
		listConds = append(listConds, fmt.Sprintf("%s ILIKE ANY(%s)", col("author"), next(patterns)))
	}

	var conditions []string
	if filter.MatchAny && len(listConds) > 1 {
		conditions = append(conditions, "("+strings.Join(listConds, " OR ")+")")
	} else {
		conditions = append(conditions, listConds...)
	}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= %s", col("published_at"), next(*filter.From)))
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= %s", col("published_at"), next(*filter.To)))
	}

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		p := next("%" + EscapeILIKE(kw) + "%")
		conditions = append(conditions, fmt.Sprintf("(%s ILIKE %s OR %s ILIKE %s OR %s ILIKE %s)",
			col("title"), p, col("description"), p, col("content"), p))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// EscapeILIKE escapes the ILIKE wildcards in s so they match literally.
func EscapeILIKE(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
