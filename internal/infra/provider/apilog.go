package provider

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/repository"
)

const apiLogWriteTimeout = 3 * time.Second

// LogRecorder writes one api_logs row per provider call.
// A nil recorder or repository records nothing.
type LogRecorder struct {
	repo   repository.APILogRepository
	logger *slog.Logger
}

func NewLogRecorder(repo repository.APILogRepository, logger *slog.Logger) *LogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRecorder{repo: repo, logger: logger}
}

// Record stores the call. A status of 0 (no response) is stored as 500.
// Write failures are logged and swallowed so they never affect the fetch.
func (r *LogRecorder) Record(ctx context.Context, source, endpoint string, status int, elapsed time.Duration, callErr error) {
	if r == nil || r.repo == nil {
		return
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}
	entry := &entity.APILog{
		APISource:      source,
		Endpoint:       endpoint,
		StatusCode:     status,
		ResponseTimeMS: elapsed.Milliseconds(),
	}
	if callErr != nil {
		msg := respond.SanitizeError(callErr)
		entry.ErrorMessage = &msg
	}

	// リクエストのキャンセル後もログは残す
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), apiLogWriteTimeout)
	defer cancel()
	if err := r.repo.Create(writeCtx, entry); err != nil {
		r.logger.Warn("failed to write api log",
			slog.String("source", source),
			slog.String("endpoint", endpoint),
			slog.Any("error", err))
	}
}
