// Package config builds the application configuration once at startup.
// Everything below main receives the values it needs explicitly; no other
// package reads provider keys or connection settings from the environment.
package config

import (
	"errors"
	"strings"
	"time"

	envcfg "news-aggregator/pkg/config"
)

// Provider names, also used as api_logs.api_source values and metric labels.
const (
	ProviderNewsAPI  = "newsapi"
	ProviderGNews    = "gnews"
	ProviderGuardian = "guardian"
	ProviderNYT      = "nyt"
)

// ProviderNames lists every supported provider in aggregation order.
var ProviderNames = []string{ProviderNewsAPI, ProviderGNews, ProviderGuardian, ProviderNYT}

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Pagination PaginationConfig
	Providers  ProvidersConfig
	Content    ContentConfig
	Notify     NotifyConfig
	LogLevel   string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

type DBConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
	// AdminEmails are granted the admin role when they register.
	AdminEmails []string
}

// RedisConfig is optional. An empty URL selects the in-memory token denylist.
type RedisConfig struct {
	URL string
}

type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// ProviderConfig configures one news API adapter.
type ProviderConfig struct {
	Name    string        `yaml:"-"`
	APIKey  string        `yaml:"-"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// DailyQuota is the provider's free-tier request allowance per day.
	DailyQuota int `yaml:"daily_quota"`
	Burst      int `yaml:"burst"`
	PageSize   int `yaml:"page_size"`
}

// Enabled reports whether an API key is configured.
func (p ProviderConfig) Enabled() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

type ProvidersConfig struct {
	NewsAPI  ProviderConfig
	GNews    ProviderConfig
	Guardian ProviderConfig
	NYT      ProviderConfig
}

// ByName returns the provider configuration for name.
func (p *ProvidersConfig) ByName(name string) (*ProviderConfig, bool) {
	switch name {
	case ProviderNewsAPI:
		return &p.NewsAPI, true
	case ProviderGNews:
		return &p.GNews, true
	case ProviderGuardian:
		return &p.Guardian, true
	case ProviderNYT:
		return &p.NYT, true
	}
	return nil, false
}

// EnabledCount returns how many providers have a key.
func (p *ProvidersConfig) EnabledCount() int {
	n := 0
	for _, name := range ProviderNames {
		if pc, _ := p.ByName(name); pc.Enabled() {
			n++
		}
	}
	return n
}

// ContentConfig controls full-text enrichment of short articles.
type ContentConfig struct {
	Enabled        bool
	Threshold      int
	MaxConcurrency int
	Timeout        time.Duration
	MaxBodySize    int64
	MaxRedirects   int
	DenyPrivateIPs bool
}

type NotifyConfig struct {
	SlackEnabled      bool
	SlackWebhookURL   string
	DiscordEnabled    bool
	DiscordWebhookURL string
	Timeout           time.Duration
}

func defaultProviders() ProvidersConfig {
	return ProvidersConfig{
		NewsAPI:  ProviderConfig{Name: ProviderNewsAPI, BaseURL: "https://newsapi.org/v2", Timeout: 10 * time.Second, DailyQuota: 100, Burst: 10, PageSize: 10},
		GNews:    ProviderConfig{Name: ProviderGNews, BaseURL: "https://gnews.io/api/v4", Timeout: 10 * time.Second, DailyQuota: 100, Burst: 10, PageSize: 10},
		Guardian: ProviderConfig{Name: ProviderGuardian, BaseURL: "https://content.guardianapis.com", Timeout: 10 * time.Second, DailyQuota: 5000, Burst: 20, PageSize: 10},
		NYT:      ProviderConfig{Name: ProviderNYT, BaseURL: "https://api.nytimes.com/svc", Timeout: 10 * time.Second, DailyQuota: 4000, Burst: 20, PageSize: 10},
	}
}

// Load reads the environment. A .env file must already be loaded by the caller.
// It fails only when PROVIDERS_CONFIG_FILE is set and cannot be applied.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            envcfg.GetEnvString("PORT", "8080"),
			ReadTimeout:     envcfg.GetEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    envcfg.GetEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Minute),
			ShutdownTimeout: envcfg.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:    int64(envcfg.GetEnvInt("MAX_BODY_BYTES", 1<<20)),
		},
		DB: DBConfig{
			URL:             envcfg.GetEnvString("DATABASE_URL", ""),
			MaxOpenConns:    envcfg.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envcfg.GetEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: envcfg.GetEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: envcfg.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		JWT: JWTConfig{
			Secret:      envcfg.GetEnvString("JWT_SECRET", ""),
			ExpiresIn:   envcfg.GetEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
			AdminEmails: envcfg.GetEnvStringList("ADMIN_EMAILS", nil),
		},
		Redis: RedisConfig{URL: envcfg.GetEnvString("REDIS_URL", "")},
		CORS: CORSConfig{
			AllowedOrigins: envcfg.GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			MaxAge:         envcfg.GetEnvInt("CORS_MAX_AGE", 86400),
		},
		Pagination: PaginationConfig{
			DefaultLimit: envcfg.GetEnvInt("PAGINATION_DEFAULT_LIMIT", 20),
			MaxLimit:     envcfg.GetEnvInt("PAGINATION_MAX_LIMIT", 100),
		},
		Providers: defaultProviders(),
		Content: ContentConfig{
			Enabled:        envcfg.GetEnvBool("FETCH_CONTENT_ENABLED", false),
			Threshold:      envcfg.GetEnvInt("CONTENT_FETCH_THRESHOLD", 1500),
			MaxConcurrency: envcfg.GetEnvInt("CONTENT_FETCH_PARALLELISM", 5),
			Timeout:        envcfg.GetEnvDuration("CONTENT_FETCH_TIMEOUT", 10*time.Second),
			MaxBodySize:    int64(envcfg.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", 10<<20)),
			MaxRedirects:   envcfg.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", 5),
			DenyPrivateIPs: envcfg.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", true),
		},
		Notify: NotifyConfig{
			SlackEnabled:      envcfg.GetEnvBool("SLACK_ENABLED", false),
			SlackWebhookURL:   envcfg.GetEnvString("SLACK_WEBHOOK_URL", ""),
			DiscordEnabled:    envcfg.GetEnvBool("DISCORD_ENABLED", false),
			DiscordWebhookURL: envcfg.GetEnvString("DISCORD_WEBHOOK_URL", ""),
			Timeout:           envcfg.GetEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
		},
		LogLevel: envcfg.GetEnvString("LOG_LEVEL", "info"),
	}

	cfg.Providers.NewsAPI.APIKey = envcfg.GetEnvString("NEWSAPI_KEY", "")
	// GNEWSAPIKEY は旧名
	cfg.Providers.GNews.APIKey = envcfg.GetEnvString("GNEWS_API_KEY", envcfg.GetEnvString("GNEWSAPIKEY", ""))
	cfg.Providers.Guardian.APIKey = envcfg.GetEnvString("GUARDIAN_API_KEY", "")
	cfg.Providers.NYT.APIKey = envcfg.GetEnvString("NYT_API_KEY", "")

	if path := envcfg.GetEnvString("PROVIDERS_CONFIG_FILE", ""); path != "" {
		if err := cfg.Providers.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.Pagination.MaxLimit <= 0 {
		cfg.Pagination.MaxLimit = 100
	}
	if cfg.Pagination.DefaultLimit <= 0 || cfg.Pagination.DefaultLimit > cfg.Pagination.MaxLimit {
		cfg.Pagination.DefaultLimit = min(20, cfg.Pagination.MaxLimit)
	}
	return cfg, nil
}

var weakSecrets = []string{"secret", "password", "test", "admin", "default", "changeme"}

// ValidateJWTSecret enforces a 32 byte minimum and rejects common weak values.
func ValidateJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters (256 bits)")
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Trim(lower, "0123456789") == weak || strings.Repeat(weak, len(lower)/len(weak)) == lower {
			return errors.New("JWT_SECRET must not be a common weak value")
		}
	}
	return nil
}
