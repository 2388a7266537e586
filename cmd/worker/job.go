package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"news-aggregator/internal/handler/http/respond"
	workerPkg "news-aggregator/internal/infra/worker"
	"news-aggregator/internal/usecase/aggregate"
)

// runner is satisfied by *aggregate.Service.
type runner interface {
	FetchAndSave(ctx context.Context, opts aggregate.Options) (*aggregate.RunResult, error)
}

// aggregationJob is the scheduled unit of work. Every trigger runs; a tick that
// fires while an earlier run is still going starts a second, overlapping run.
type aggregationJob struct {
	svc     runner
	cfg     *workerPkg.Config
	metrics *workerPkg.Metrics
	health  *workerPkg.HealthServer
	logger  *slog.Logger

	inFlight atomic.Int32
	// runs started outside cron; cron tracks its own through Stop()
	wg sync.WaitGroup
}

// startNow launches a run in the background. Add happens before the goroutine
// exists so a concurrent Wait always sees it.
func (j *aggregationJob) startNow() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.Run()
	}()
}

// Run executes one aggregation with the configured timeout.
func (j *aggregationJob) Run() {
	if n := j.inFlight.Add(1); n > 1 {
		j.metrics.RecordOverlap()
		j.logger.Warn("previous aggregation still running, starting overlapping run", slog.Int("in_flight", int(n)))
	}
	defer j.inFlight.Add(-1)

	start := time.Now()
	j.logger.Info("scheduled aggregation started")

	// 集約処理のタイムアウト（設定から取得）
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.AggregateTimeout)
	defer cancel()

	result, err := j.svc.FetchAndSave(ctx, aggregate.Options{Limit: j.cfg.FetchLimit})
	elapsed := time.Since(start)

	info := workerPkg.RunInfo{StartedAt: start.UTC(), Duration: elapsed.Round(time.Millisecond).String()}
	if err != nil {
		info.Error = respond.SanitizeError(err)
		j.metrics.RecordRun(false, elapsed.Seconds(), 0)
		if j.health != nil {
			j.health.SetLastRun(info)
		}
		// 機密情報をマスクしてログ出力
		j.logger.Error("scheduled aggregation failed",
			slog.String("error", info.Error),
			slog.Duration("duration", elapsed))
		return
	}

	info.Success = true
	info.Saved = result.Saved
	j.metrics.RecordRun(true, elapsed.Seconds(), result.Saved)
	if j.health != nil {
		j.health.SetLastRun(info)
	}

	attrs := []any{
		slog.Int("fetched", result.Fetched),
		slog.Int("unique", result.Unique),
		slog.Int("saved", result.Saved),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", elapsed),
	}
	if r := result.Report; r != nil {
		attrs = append(attrs,
			slog.Int("sources_successful", r.SourcesSuccessful),
			slog.Int("sources_failed", r.SourcesFailed))
	}
	j.logger.Info("scheduled aggregation completed", attrs...)
}

// Wait blocks until every run launched with startNow has returned.
func (j *aggregationJob) Wait() {
	j.wg.Wait()
}
