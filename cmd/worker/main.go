package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"news-aggregator/internal/config"
	"news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/infra/db"
	"news-aggregator/internal/infra/fetcher"
	"news-aggregator/internal/infra/notifier"
	"news-aggregator/internal/infra/provider"
	workerPkg "news-aggregator/internal/infra/worker"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/internal/usecase/aggregate"
)

// waitForSchema blocks until the API process has applied the schema.
func waitForSchema(ctx context.Context, logger *slog.Logger, database *sql.DB) error {
	const probe = "SELECT 1 FROM articles LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("articles table not available after 10 attempts")
}

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// run owns every deferred cleanup so a failing start still closes what it opened.
func run() error {
	_ = godotenv.Load()

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := logging.NewLogger(appCfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.InitProvider()
	defer func() { _ = shutdownTracing(context.Background()) }()

	metrics := workerPkg.NewMetrics(nil)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics.Config)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("aggregate_timeout", cfg.AggregateTimeout),
		slog.Int("fetch_limit", cfg.FetchLimit),
		slog.Bool("run_on_startup", cfg.RunOnStartup),
		slog.Int("health_port", cfg.HealthPort))

	database, err := db.Open(ctx, appCfg.DB.URL, db.ConnectionConfig{
		MaxOpenConns:    appCfg.DB.MaxOpenConns,
		MaxIdleConns:    appCfg.DB.MaxIdleConns,
		ConnMaxLifetime: appCfg.DB.ConnMaxLifetime,
		ConnMaxIdleTime: appCfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := waitForSchema(ctx, logger, database); err != nil {
		return fmt.Errorf("schema not ready: %w", err)
	}

	articleRepo := postgres.NewArticleRepo(database)
	apiLogRepo := postgres.NewAPILogRepo(database)
	registry := provider.NewRegistry(appCfg.Providers, apiLogRepo, logger)

	var contentFetcher aggregate.ContentFetcher
	if appCfg.Content.Enabled {
		contentFetcher = fetcher.NewReadability(appCfg.Content)
	}
	svc := aggregate.NewService(
		registry,
		articleRepo,
		apiLogRepo,
		contentFetcher,
		aggregate.ContentConfig{Threshold: appCfg.Content.Threshold, Parallelism: appCfg.Content.MaxConcurrency},
		notifier.FromConfig(appCfg.Notify, logger),
		logger,
	)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), registry, nil, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil {
			logger.Error("worker health server failed", slog.Any("error", err))
		}
	}()

	job := &aggregationJob{svc: svc, cfg: cfg, metrics: metrics, health: healthServer, logger: logger}
	if err := runScheduler(ctx, logger, cfg, job, healthServer); err != nil {
		return err
	}

	svc.WaitNotifications()
	logger.Info("worker stopped")
	return nil
}

// runScheduler starts cron and blocks until ctx is cancelled and running jobs have finished.
func runScheduler(ctx context.Context, logger *slog.Logger, cfg *workerPkg.Config, job *aggregationJob, health *workerPkg.HealthServer) error {
	cronLog := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)
	if _, err := c.AddJob(cfg.CronSchedule, job); err != nil {
		return fmt.Errorf("add cron job %q: %w", cfg.CronSchedule, err)
	}
	c.Start()
	health.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	if cfg.RunOnStartup {
		job.startNow()
	}

	<-ctx.Done()
	health.SetReady(false)
	logger.Info("stopping scheduler, waiting for running jobs")

	// Stop の context は cron が起動したジョブの終了で完了する
	cronDone := c.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		job.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cfg.AggregateTimeout):
		logger.Warn("running jobs did not finish before the aggregate timeout")
	}
	return nil
}

// cronLogger routes robfig/cron's logs to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.Any("error", err))...)
}
