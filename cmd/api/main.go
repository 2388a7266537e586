package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/config"
	"news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/infra/db"
	"news-aggregator/internal/infra/fetcher"
	"news-aggregator/internal/infra/notifier"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/infra/tokenstore"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/tracing"
	authsvc "news-aggregator/internal/service/auth"
	"news-aggregator/internal/usecase/aggregate"
	apilogUC "news-aggregator/internal/usecase/apilog"
	artUC "news-aggregator/internal/usecase/article"
	"news-aggregator/internal/usecase/bookmark"
	prefUC "news-aggregator/internal/usecase/preference"

	hhttp "news-aggregator/internal/handler/http"
	hadmin "news-aggregator/internal/handler/http/admin"
	harticle "news-aggregator/internal/handler/http/article"
	hauth "news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/middleware"
	hpref "news-aggregator/internal/handler/http/preference"
	"news-aggregator/internal/handler/http/requestid"

	_ "news-aggregator/docs" // swagger docs
)

// @title           News Aggregator API
// @version         1.0
// @description     NewsAPI / GNews / Guardian / NYT から記事を集約する REST API
// @description     記事の検索・絞り込み、パーソナライズフィード、保存記事、管理者向け統計を提供します。

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT トークンによる認証。ヘッダーに "Bearer {token}" 形式で指定してください。

// version is overridden at build time with -ldflags "-X main.version=...".
var version = ""

// requestTimeout bounds ordinary API requests. Manual aggregation runs are exempt.
const requestTimeout = 30 * time.Second

func main() {
	// .env は任意（本番では環境変数を直接使う）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg.LogLevel)
	if err := config.ValidateJWTSecret(cfg.JWT.Secret); err != nil {
		logger.Error("invalid JWT secret", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.InitProvider()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDatabase(ctx, logger, cfg.DB)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	app, err := buildApp(ctx, logger, cfg, database)
	if err != nil {
		logger.Error("failed to initialize application", slog.Any("error", err))
		os.Exit(1)
	}
	defer app.close()

	runServer(ctx, logger, cfg.Server, app.handler)

	// 送信中の Slack / Discord 通知を待つ
	app.aggregator.WaitNotifications()
	tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
}

func initLogger(level string) *slog.Logger {
	logger := logging.NewLogger(level)
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the pool and applies the schema.
func initDatabase(ctx context.Context, logger *slog.Logger, cfg config.DBConfig) *sql.DB {
	database, err := db.Open(ctx, cfg.URL, db.ConnectionConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func getVersion() string {
	if version != "" {
		return version
	}
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// app holds the wired HTTP handler and what must be released on shutdown.
type app struct {
	handler    http.Handler
	aggregator *aggregate.Service
	closers    []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
}

// newTokenStore returns the JWT denylist: Redis when REDIS_URL is set, memory otherwise.
// The pinger is nil for the in-memory store.
func newTokenStore(ctx context.Context, logger *slog.Logger, cfg config.RedisConfig) (authsvc.Denylist, hhttp.Pinger, func() error, error) {
	if cfg.URL == "" {
		mem := tokenstore.NewMemory()
		mem.StartSweeper(ctx, 10*time.Minute)
		logger.Info("token denylist: in-memory")
		return mem, nil, func() error { return nil }, nil
	}
	rdb, err := tokenstore.Dial(ctx, cfg.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("token denylist: redis")
	return rdb, rdb, rdb.Close, nil
}

func buildApp(ctx context.Context, logger *slog.Logger, cfg *config.Config, database *sql.DB) (*app, error) {
	articleRepo := postgres.NewArticleRepo(database)
	apiLogRepo := postgres.NewAPILogRepo(database)
	userRepo := postgres.NewUserRepo(database)
	savedRepo := postgres.NewSavedArticleRepo(database)
	prefRepo := postgres.NewPreferenceRepo(database)

	registry := provider.NewRegistry(cfg.Providers, apiLogRepo, logger)
	if cfg.Providers.EnabledCount() == 0 {
		logger.Warn("no news API keys configured, manual fetches will fail")
	}

	var contentFetcher aggregate.ContentFetcher
	if cfg.Content.Enabled {
		contentFetcher = fetcher.NewReadability(cfg.Content)
	}
	aggregator := aggregate.NewService(
		registry,
		articleRepo,
		apiLogRepo,
		contentFetcher,
		aggregate.ContentConfig{Threshold: cfg.Content.Threshold, Parallelism: cfg.Content.MaxConcurrency},
		notifier.FromConfig(cfg.Notify, logger),
		logger,
	)

	denylist, pinger, closeStore, err := newTokenStore(ctx, logger, cfg.Redis)
	if err != nil {
		return nil, err
	}
	accounts := authsvc.NewService(userRepo, authsvc.NewTokens(cfg.JWT.Secret, cfg.JWT.ExpiresIn), denylist, cfg.JWT.AdminEmails)
	authMW := hauth.NewMiddleware(accounts, logger)

	pageCfg := pagination.Config{
		DefaultPage:  1,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:         database,
		Version:    getVersion(),
		TokenStore: pinger,
		Providers:  registry,
		Logger:     logger,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	hauth.Register(mux, hauth.Handler{Svc: accounts, Logger: logger}, authMW)
	harticle.Register(mux, harticle.Handler{
		Articles:      &artUC.Service{Repo: articleRepo, Preferences: prefRepo},
		Bookmarks:     &bookmark.Service{Saved: savedRepo, Articles: articleRepo},
		PaginationCfg: pageCfg,
		Logger:        logger,
	}, authMW)
	hpref.Register(mux, hpref.Handler{
		Svc:    &prefUC.Service{Repo: prefRepo, Articles: articleRepo},
		Logger: logger,
	}, authMW)
	hadmin.Register(mux, hadmin.Handler{
		Aggregator:    aggregator,
		Logs:          &apilogUC.Service{Repo: apiLogRepo},
		Providers:     registry,
		PaginationCfg: pageCfg,
		Logger:        logger,
	}, authMW)

	handler := hhttp.Chain(mux,
		middleware.CORS(middleware.NewCORSConfig(cfg.CORS, logger)),
		requestid.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes),
		hhttp.MetricsMiddleware,
		tracing.Middleware,
		hhttp.InputValidation(),
		hhttp.Timeout(requestTimeout, "/api/admin/fetch", "/api/admin/test-apis"),
	)

	return &app{
		handler:    handler,
		aggregator: aggregator,
		closers:    []func() error{closeStore},
	}, nil
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		return
	}
	logger.Info("server stopped")
}
