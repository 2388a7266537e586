package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadString(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		wantValue    string
		wantFallback bool
	}{
		{name: "unset uses default", env: "", wantValue: "0 * * * *"},
		{name: "valid value", env: "*/15 * * * *", wantValue: "*/15 * * * *"},
		{name: "invalid falls back", env: "every hour", wantValue: "0 * * * *", wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.env)
			r := LoadString("TEST_CRON", "0 * * * *", ValidateCronSchedule)
			assert.Equal(t, tt.wantValue, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, r.Warning, "TEST_CRON")
			} else {
				assert.Empty(t, r.Warning)
			}
		})
	}
}

func TestLoadInt(t *testing.T) {
	t.Setenv("TEST_PORT", "abc")
	r := LoadInt("TEST_PORT", 9091, ValidatePort)
	assert.True(t, r.FallbackApplied)
	assert.Equal(t, 9091, r.Value)

	t.Setenv("TEST_PORT", "80")
	r = LoadInt("TEST_PORT", 9091, ValidatePort)
	assert.True(t, r.FallbackApplied)

	t.Setenv("TEST_PORT", "8081")
	r = LoadInt("TEST_PORT", 9091, ValidatePort)
	assert.False(t, r.FallbackApplied)
	assert.Equal(t, 8081, r.Value)
}

func TestLoadDuration(t *testing.T) {
	within := func(d time.Duration) error { return ValidateDuration(d, time.Minute, time.Hour) }

	t.Setenv("TEST_TIMEOUT", "15m")
	assert.Equal(t, 15*time.Minute, LoadDuration("TEST_TIMEOUT", 10*time.Minute, within).Value)

	t.Setenv("TEST_TIMEOUT", "2h")
	r := LoadDuration("TEST_TIMEOUT", 10*time.Minute, within)
	assert.True(t, r.FallbackApplied)
	assert.Equal(t, 10*time.Minute, r.Value)
}

func TestLoadBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "true")
	assert.True(t, LoadBool("TEST_FLAG", false).Value)

	t.Setenv("TEST_FLAG", "yes please")
	r := LoadBool("TEST_FLAG", false)
	assert.True(t, r.FallbackApplied)
	assert.False(t, r.Value)
}

func TestFallbacks_RecordsMetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)
	var buf bytes.Buffer
	f := NewFallbacks(slog.New(slog.NewJSONHandler(&buf, nil)), m)

	var schedule string
	var port int
	Apply(f, "cron_schedule", &schedule, Result[string]{Value: "0 * * * *", Warning: "bad", FallbackApplied: true})
	Apply(f, "health_port", &port, Result[int]{Value: 9000})
	f.Finish()

	assert.Equal(t, "0 * * * *", schedule)
	assert.Equal(t, 9000, port)
	assert.True(t, f.Active())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	require.Contains(t, buf.String(), "configuration fallback applied")
	assert.NotContains(t, buf.String(), "health_port")
}
