// Package middleware holds the CORS policy of the API server.
package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"news-aggregator/internal/config"
)

var (
	defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	defaultHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
)

// CORSConfig is the resolved CORS policy.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
	Logger         *slog.Logger
}

// NewCORSConfig builds the policy from the application config.
// Origins that are not absolute http(s) URLs are dropped with a warning.
func NewCORSConfig(cfg config.CORSConfig, logger *slog.Logger) CORSConfig {
	if logger == nil {
		logger = slog.Default()
	}
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o != "*" && !validOrigin(o) {
			logger.Warn("CORS: ignoring invalid origin", slog.String("origin", o))
			continue
		}
		origins = append(origins, o)
	}
	maxAge := cfg.MaxAge
	if maxAge < 0 {
		maxAge = 0
	}
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: defaultMethods,
		AllowedHeaders: defaultHeaders,
		MaxAge:         maxAge,
		Logger:         logger,
	}
}

// IsAllowed matches origin case-insensitively. "*" allows every origin.
func (c CORSConfig) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// CORS echoes allowed origins and answers preflight requests with 204.
// Requests from other origins are served without CORS headers, so the browser blocks them.
func CORS(c CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(c.AllowedMethods, ", ")
	headers := strings.Join(c.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(c.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !c.IsAllowed(origin) {
				if c.Logger != nil {
					c.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Trace-Id")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

/* ───── ヘルパ ───── */

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}

func validOrigin(o string) bool {
	u, err := url.Parse(o)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" && u.Path == ""
}
