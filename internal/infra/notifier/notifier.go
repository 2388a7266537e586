// Package notifier posts aggregation run summaries to chat webhooks.
// Slack and Discord are supported; each webhook is rate limited to one
// message per second and guarded by a circuit breaker. Messages are never retried.
package notifier

import (
	"context"
	"log/slog"

	"news-aggregator/internal/config"
)

// Level colours the message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Field is one labelled value shown under the message body.
type Field struct {
	Name  string
	Value string
}

// Message is channel independent; each notifier renders it in its own format.
type Message struct {
	Title   string
	Summary string
	Level   Level
	Fields  []Field
}

// Notifier delivers a Message to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// FromConfig returns the enabled notifiers. Channels enabled without a
// webhook URL are skipped with a warning.
func FromConfig(cfg config.NotifyConfig, logger *slog.Logger) []Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Notifier
	if cfg.SlackEnabled {
		if cfg.SlackWebhookURL == "" {
			logger.Warn("SLACK_ENABLED is set but SLACK_WEBHOOK_URL is empty, slack disabled")
		} else {
			out = append(out, NewSlack(cfg.SlackWebhookURL, cfg.Timeout))
		}
	}
	if cfg.DiscordEnabled {
		if cfg.DiscordWebhookURL == "" {
			logger.Warn("DISCORD_ENABLED is set but DISCORD_WEBHOOK_URL is empty, discord disabled")
		} else {
			out = append(out, NewDiscord(cfg.DiscordWebhookURL, cfg.Timeout))
		}
	}
	return out
}
