package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
)

// Params are the page and limit of one list request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for p.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.Limit)
}

// ParseQueryParams reads page and limit from the query string.
// Missing values take the config defaults. Out of range values are an error.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	q := r.URL.Query()
	p := Params{Page: config.DefaultPage, Limit: config.DefaultLimit}

	page, ok := atoiIn(q.Get("page"), 1, 0)
	if !ok {
		return p, fmt.Errorf("invalid query parameter: page must be a positive integer")
	}
	if page > 0 {
		p.Page = page
	}

	limit, ok := atoiIn(q.Get("limit"), 1, config.MaxLimit)
	if !ok {
		return p, fmt.Errorf("invalid query parameter: limit must be between 1 and %d", config.MaxLimit)
	}
	if limit > 0 {
		p.Limit = limit
	}

	// OFFSET = (page-1)*limit が int に収まること
	if p.Limit > 0 && p.Page > math.MaxInt/p.Limit {
		return p, fmt.Errorf("invalid query parameter: page out of range")
	}
	return p, nil
}

// atoiIn parses raw within [lo, hi]; hi <= 0 means unbounded.
// An empty raw yields (0, true).
func atoiIn(raw string, lo, hi int) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		return 0, false
	}
	return n, true
}
