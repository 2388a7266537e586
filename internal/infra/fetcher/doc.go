// Package fetcher extracts the readable text of article pages with
// go-readability. It is used to enrich articles whose provider content is
// truncated. Requests to private addresses are refused unless explicitly allowed.
package fetcher
