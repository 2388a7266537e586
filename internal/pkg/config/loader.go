package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one environment value.
// When FallbackApplied is true, Value holds the default and Warning explains why.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// load reads envKey, parses it and validates it. An unset or empty variable
// yields the default without a warning. A parse or validation failure yields
// the default with a warning. It never fails.
func load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, def),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string value. validate may be nil.
func LoadString(envKey, def string, validate func(string) error) Result[string] {
	return load(envKey, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadInt loads an integer value. validate may be nil.
func LoadInt(envKey string, def int, validate func(int) error) Result[int] {
	return load(envKey, def, strconv.Atoi, validate)
}

// LoadDuration loads a time.ParseDuration value such as "10m". validate may be nil.
func LoadDuration(envKey string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return load(envKey, def, time.ParseDuration, validate)
}

// LoadBool loads a strconv.ParseBool value.
func LoadBool(envKey string, def bool) Result[bool] {
	return load(envKey, def, strconv.ParseBool, nil)
}

// Fallbacks applies loaded values and reports every fallback to the logger
// and to the component's config metrics.
type Fallbacks struct {
	logger  *slog.Logger
	metrics *Metrics
	active  bool
}

// NewFallbacks returns a recorder. metrics may be nil.
func NewFallbacks(logger *slog.Logger, metrics *Metrics) *Fallbacks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallbacks{logger: logger, metrics: metrics}
}

// Apply stores r.Value in dst and records a fallback under field when one happened.
func Apply[T any](f *Fallbacks, field string, dst *T, r Result[T]) {
	*dst = r.Value
	if !r.FallbackApplied {
		return
	}
	f.active = true
	f.logger.Warn("configuration fallback applied",
		slog.String("field", field),
		slog.String("warning", r.Warning))
	if f.metrics != nil {
		f.metrics.RecordValidationError(field)
		f.metrics.RecordFallback(field)
	}
}

// Active reports whether any fallback has been applied.
func (f *Fallbacks) Active() bool { return f.active }

// Finish publishes the fallback state and the load timestamp.
func (f *Fallbacks) Finish() {
	if f.metrics == nil {
		return
	}
	f.metrics.SetFallbackActive(f.active)
	f.metrics.RecordLoadTimestamp()
}
