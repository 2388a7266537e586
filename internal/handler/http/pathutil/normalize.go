// Package pathutil holds URL path helpers shared by the HTTP handlers and
// the metrics middleware.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its metrics label.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/articles/\d+$`), Template: "/api/articles/:id"},
	{Pattern: regexp.MustCompile(`^/api/articles/\d+/save$`), Template: "/api/articles/:id/save"},
	{Pattern: regexp.MustCompile(`^/api/admin/api-logs/(stats|cleanup)$`), Template: ""},
	{Pattern: regexp.MustCompile(`^/api/admin/api-logs/[^/]+$`), Template: "/api/admin/api-logs/:source"},
	{Pattern: regexp.MustCompile(`^/swagger/.+$`), Template: "/swagger/*"},
}

// NormalizePath converts dynamic paths into templates so metric labels keep a
// bounded cardinality. Query strings and trailing slashes are ignored.
// Unknown paths are returned unchanged.
//
//	NormalizePath("/api/articles/123")        // "/api/articles/:id"
//	NormalizePath("/api/articles/123/save")   // "/api/articles/:id/save"
//	NormalizePath("/api/articles/search")     // "/api/articles/search"
//	NormalizePath("/api/admin/api-logs/NYT")  // "/api/admin/api-logs/:source"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			// 空テンプレートは静的ルートとしてそのまま返す
			if p.Template == "" {
				return path
			}
			return p.Template
		}
	}
	return path
}
