package article

import "errors"

var (
	ErrArticleNotFound  = errors.New("Article not found")
	ErrInvalidArticleID = errors.New("invalid article id")
	ErrEmptyQuery       = errors.New("Search query is required")
	ErrInvalidDateRange = errors.New("startDate must not be after endDate")
)
