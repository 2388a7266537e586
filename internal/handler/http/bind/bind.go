// Package bind decodes and validates request input for the HTTP handlers.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"news-aggregator/internal/handler/http/respond"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// エラーのフィールド名は JSON タグ名で返す
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// JSON decodes the request body into dst and validates its struct tags.
// On failure it writes a 400 response and returns false.
func JSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respond.Fail(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			respond.Fail(w, http.StatusBadRequest, "request body is required")
		default:
			respond.Fail(w, http.StatusBadRequest, "invalid JSON body")
		}
		return false
	}
	if errs := Struct(dst); len(errs) > 0 {
		respond.ValidationFailed(w, errs)
		return false
	}
	return true
}

// Struct validates v and converts the failures into field errors.
func Struct(v any) []respond.FieldError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []respond.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]respond.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, respond.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "eqfield":
		return "must match " + fe.Param()
	case "dive":
		return "contains an invalid value"
	}
	return "is invalid"
}

// ErrInvalidDate is returned by Date for values that are neither YYYY-MM-DD nor RFC 3339.
var ErrInvalidDate = errors.New("invalid date: use YYYY-MM-DD or RFC 3339")

// Date parses an optional date query value. Empty yields nil.
// A bare date used as an upper bound covers the whole day.
func Date(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
