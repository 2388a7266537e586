package notifier

import (
	"context"
	"time"

	"news-aggregator/internal/utils/text"
)

// Embed limits
const (
	discordMaxTitle       = 256
	discordMaxDescription = 4096
	discordMaxFields      = 25
)

var discordColors = map[Level]int{
	LevelInfo:    0x3498DB,
	LevelWarning: 0xF1C40F,
	LevelError:   0xE74C3C,
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields,omitempty"`
	Timestamp   string         `json:"timestamp"`
	Footer      discordFooter  `json:"footer"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// Discord posts embeds to a Discord webhook.
type Discord struct {
	*webhook
	now func() time.Time
}

func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	return &Discord{webhook: newWebhook("discord", webhookURL, timeout), now: time.Now}
}

func (d *Discord) Notify(ctx context.Context, msg Message) error {
	return d.post(ctx, d.payload(msg))
}

func (d *Discord) payload(msg Message) discordPayload {
	embed := discordEmbed{
		Title:       text.Truncate(msg.Title, discordMaxTitle),
		Description: text.Truncate(msg.Summary, discordMaxDescription),
		Color:       discordColors[msg.Level],
		Timestamp:   d.now().UTC().Format(time.RFC3339),
		Footer:      discordFooter{Text: "news-aggregator"},
	}
	for i, f := range msg.Fields {
		if i == discordMaxFields {
			break
		}
		embed.Fields = append(embed.Fields, discordField{Name: f.Name, Value: f.Value, Inline: true})
	}
	return discordPayload{Embeds: []discordEmbed{embed}}
}
