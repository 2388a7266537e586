package pathutil

import (
	"errors"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/articles/123", "/api/articles/:id"},
		{"/api/articles/123/", "/api/articles/:id"},
		{"/api/articles/456?page=2", "/api/articles/:id"},
		{"/api/articles/123/save", "/api/articles/:id/save"},
		{"/api/articles/search", "/api/articles/search"},
		{"/api/articles/personalized", "/api/articles/personalized"},
		{"/api/admin/api-logs/NewsAPI", "/api/admin/api-logs/:source"},
		{"/api/admin/api-logs/stats", "/api/admin/api-logs/stats"},
		{"/api/admin/api-logs/cleanup", "/api/admin/api-logs/cleanup"},
		{"/swagger/index.html", "/swagger/*"},
		{"/health", "/health"},
		{"/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"9223372036854775807", 9223372036854775807, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ParseID(%q) err = %v, want ErrInvalidID", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v", tt.raw, got, err)
		}
	}
}
