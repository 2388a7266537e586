package provider

import (
	"errors"
	"fmt"
)

// Error is a failed provider call. Error() renders "<Provider> API error: <msg>".
type Error struct {
	Provider string
	// StatusCode is 0 when no HTTP response was received.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}
