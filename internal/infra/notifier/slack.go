package notifier

import (
	"context"
	"strings"
	"time"

	"news-aggregator/internal/utils/text"
)

// Block Kit limits
const (
	slackMaxSectionText = 3000
	slackMaxFallback    = 150
)

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Slack posts to an Incoming Webhook using Block Kit.
type Slack struct {
	*webhook
	now func() time.Time
}

func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	return &Slack{webhook: newWebhook("slack", webhookURL, timeout), now: time.Now}
}

func (s *Slack) Notify(ctx context.Context, msg Message) error {
	return s.post(ctx, s.payload(msg))
}

func (s *Slack) payload(msg Message) slackPayload {
	icon := map[Level]string{LevelInfo: ":newspaper:", LevelWarning: ":warning:", LevelError: ":x:"}[msg.Level]

	section := "*" + msg.Title + "*"
	if msg.Summary != "" {
		section += "\n" + msg.Summary
	}
	blocks := []slackBlock{{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: text.Truncate(icon+" "+section, slackMaxSectionText)},
	}}

	if len(msg.Fields) > 0 {
		fields := make([]slackText, 0, len(msg.Fields))
		for _, f := range msg.Fields {
			fields = append(fields, slackText{Type: "mrkdwn", Text: "*" + f.Name + "*\n" + f.Value})
		}
		// section の fields は最大 10 件
		if len(fields) > 10 {
			fields = fields[:10]
		}
		blocks = append(blocks, slackBlock{Type: "section", Fields: fields})
	}

	blocks = append(blocks, slackBlock{
		Type:     "context",
		Elements: []slackText{{Type: "mrkdwn", Text: "news-aggregator • " + s.now().UTC().Format(time.RFC3339)}},
	})

	return slackPayload{
		Text:   text.Truncate(strings.TrimSpace(msg.Title), slackMaxFallback),
		Blocks: blocks,
	}
}
