package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/config"
)

var fixedNow = func() time.Time { return time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC) }

func capture(t *testing.T, status int, header map[string]string) (*httptest.Server, *[]byte) {
	t.Helper()
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("invalid_payload"))
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func sampleMessage() Message {
	return Message{
		Title:   "Aggregation completed",
		Summary: "2 of 3 sources succeeded",
		Level:   LevelWarning,
		Fields: []Field{
			{Name: "Fetched", Value: "10"},
			{Name: "Saved", Value: "9"},
		},
	}
}

func TestSlack_Notify(t *testing.T) {
	srv, body := capture(t, http.StatusOK, nil)
	s := NewSlack(srv.URL, time.Second)
	s.now = fixedNow

	require.NoError(t, s.Notify(context.Background(), sampleMessage()))

	var got slackPayload
	require.NoError(t, json.Unmarshal(*body, &got))
	assert.Equal(t, "Aggregation completed", got.Text)
	require.Len(t, got.Blocks, 3)
	assert.True(t, strings.HasPrefix(got.Blocks[0].Text.Text, ":warning: *Aggregation completed*"))
	require.Len(t, got.Blocks[1].Fields, 2)
	assert.Equal(t, "*Fetched*\n10", got.Blocks[1].Fields[0].Text)
	assert.Contains(t, got.Blocks[2].Elements[0].Text, "2026-01-15T09:00:00Z")
}

func TestDiscord_Notify(t *testing.T) {
	srv, body := capture(t, http.StatusNoContent, nil)
	d := NewDiscord(srv.URL, time.Second)
	d.now = fixedNow

	require.NoError(t, d.Notify(context.Background(), sampleMessage()))

	var got discordPayload
	require.NoError(t, json.Unmarshal(*body, &got))
	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, "Aggregation completed", e.Title)
	assert.Equal(t, 0xF1C40F, e.Color)
	assert.Len(t, e.Fields, 2)
	assert.Equal(t, "2026-01-15T09:00:00Z", e.Timestamp)
}

func TestWebhook_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "3"}, func(t *testing.T, err error) {
			var rl *RateLimitError
			require.True(t, errors.As(err, &rl))
			assert.Equal(t, 3*time.Second, rl.RetryAfter)
		}},
		{"client error", http.StatusBadRequest, nil, func(t *testing.T, err error) {
			var ce *ClientError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "invalid_payload", ce.Message)
		}},
		{"server error", http.StatusBadGateway, nil, func(t *testing.T, err error) {
			var se *ServerError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusBadGateway, se.StatusCode)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := capture(t, tt.status, tt.header)
			err := NewSlack(srv.URL, time.Second).Notify(context.Background(), sampleMessage())
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "slack: "))
			tt.check(t, err)
		})
	}
}

func TestWebhook_URLNotLeaked(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	secretURL := srv.URL + "/services/T000/B000/SECRETTOKEN"
	srv.Close()

	err := NewDiscord(secretURL, time.Second).Notify(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRETTOKEN")
}

func TestFromConfig(t *testing.T) {
	got := FromConfig(config.NotifyConfig{
		SlackEnabled:      true,
		SlackWebhookURL:   "https://hooks.slack.example/x",
		DiscordEnabled:    true,
		DiscordWebhookURL: "",
	}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "slack", got[0].Name())

	assert.Empty(t, FromConfig(config.NotifyConfig{}, nil))
}
