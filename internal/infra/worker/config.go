// Package worker holds the scheduler process's configuration, metrics and
// health server. The job itself is the aggregate use case.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news-aggregator/internal/pkg/config"
)

// Config controls when and how the scheduled aggregation runs.
type Config struct {
	// CronSchedule is a five-field cron expression, hourly by default.
	CronSchedule string
	// Timezone is the IANA zone the schedule is evaluated in.
	Timezone string
	// AggregateTimeout bounds one run. Range 1m to 1h.
	AggregateTimeout time.Duration
	// FetchLimit is the per-provider page size. Range 1 to 100.
	FetchLimit int
	// RunOnStartup triggers one run immediately after the scheduler starts.
	RunOnStartup bool
	// HealthPort serves /health, /health/ready, /health/providers and /metrics.
	HealthPort int
}

// DefaultConfig runs at minute 0 of every hour in UTC.
func DefaultConfig() Config {
	return Config{
		CronSchedule:     "0 * * * *",
		Timezone:         "UTC",
		AggregateTimeout: 10 * time.Minute,
		FetchLimit:       10,
		RunOnStartup:     false,
		HealthPort:       9091,
	}
}

func validateTimeout(d time.Duration) error {
	return config.ValidateDuration(d, time.Minute, time.Hour)
}

func validateFetchLimit(v int) error {
	return config.ValidateIntRange(v, 1, 100)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateTimeout(c.AggregateTimeout); err != nil {
		errs = append(errs, fmt.Errorf("aggregate timeout: %w", err))
	}
	if err := validateFetchLimit(c.FetchLimit); err != nil {
		errs = append(errs, fmt.Errorf("fetch limit: %w", err))
	}
	if err := config.ValidatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone, UTC when it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker settings. Invalid values fall back to
// the default with a warning and a config metric, so it never fails.
//
//	CRON_SCHEDULE      "0 * * * *"
//	WORKER_TIMEZONE    "UTC"
//	AGGREGATE_TIMEOUT  "10m" (1m..1h)
//	FETCH_LIMIT        10 (1..100)
//	RUN_ON_STARTUP     false
//	WORKER_HEALTH_PORT 9091
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.Metrics) *Config {
	cfg := DefaultConfig()
	fb := config.NewFallbacks(logger, metrics)

	config.Apply(fb, "cron_schedule", &cfg.CronSchedule,
		config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	config.Apply(fb, "timezone", &cfg.Timezone,
		config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	config.Apply(fb, "aggregate_timeout", &cfg.AggregateTimeout,
		config.LoadDuration("AGGREGATE_TIMEOUT", cfg.AggregateTimeout, validateTimeout))
	config.Apply(fb, "fetch_limit", &cfg.FetchLimit,
		config.LoadInt("FETCH_LIMIT", cfg.FetchLimit, validateFetchLimit))
	config.Apply(fb, "run_on_startup", &cfg.RunOnStartup,
		config.LoadBool("RUN_ON_STARTUP", cfg.RunOnStartup))
	config.Apply(fb, "health_port", &cfg.HealthPort,
		config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.ValidatePort))

	fb.Finish()
	return &cfg
}
