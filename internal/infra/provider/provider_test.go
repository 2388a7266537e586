package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/config"
)

func TestFetch_NetworkFailureLogs500(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	logs := &fakeLogRepo{}
	_, err := NewGuardian(testConfig(baseURL), NewLogRecorder(logs, nil), nil).Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Guardian API error:")
	assert.Equal(t, 0, StatusOf(err))
	assert.NotContains(t, err.Error(), "test-key")

	entries := logs.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "guardian", entries[0].APISource)
	assert.Equal(t, http.StatusInternalServerError, entries[0].StatusCode)
	require.NotNil(t, entries[0].ErrorMessage)
}

func TestFetch_LogWriteFailureIsSwallowed(t *testing.T) {
	srv, _ := serve(t, http.StatusOK, `{"status":"OK","num_results":0,"results":[]}`)
	logs := &fakeLogRepo{err: errors.New("db down")}

	res, err := NewNYT(testConfig(srv.URL), NewLogRecorder(logs, nil), nil).Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestFetch_APIKeyNotInLoggedError(t *testing.T) {
	srv, _ := serve(t, http.StatusInternalServerError, `not json`)
	logs := &fakeLogRepo{}
	_, err := NewNewsAPI(testConfig(srv.URL), NewLogRecorder(logs, nil), nil).Fetch(context.Background(), FetchOptions{})
	require.Error(t, err)

	entries := logs.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "/top-headlines", entries[0].Endpoint, "query string with the key is not stored")
	assert.NotContains(t, *entries[0].ErrorMessage, "test-key")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"bad key"}`, "status 401: bad key"},
		{"errors array", `{"errors":["a","b"]}`, "status 401: a; b"},
		{"guardian nested", `{"response":{"message":"nested"}}`, "status 401: nested"},
		{"nyt fault", `{"fault":{"faultstring":"fault"}}`, "status 401: fault"},
		{"not json", `<html>`, "status 401: Unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(http.StatusUnauthorized, []byte(tt.body)))
		})
	}
}

func TestRegistry_EnabledInFixedOrder(t *testing.T) {
	cfg := config.ProvidersConfig{
		NewsAPI:  config.ProviderConfig{Name: config.ProviderNewsAPI},
		GNews:    config.ProviderConfig{Name: config.ProviderGNews, APIKey: "g"},
		Guardian: config.ProviderConfig{Name: config.ProviderGuardian},
		NYT:      config.ProviderConfig{Name: config.ProviderNYT, APIKey: "n"},
	}
	r := NewRegistry(cfg, nil, nil)

	var names []string
	for _, s := range r.Sources() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"gnews", "nyt"}, names)

	status := r.Status()
	require.Len(t, status, 4)
	assert.Equal(t, Status{Name: "newsapi"}, status[0])
	assert.True(t, status[1].Configured)
	assert.Equal(t, "closed", status[1].CircuitState)
	assert.False(t, status[2].Configured)
	assert.True(t, r.Healthy())
}

func TestRegistry_NoKeys(t *testing.T) {
	r := NewRegistry(config.ProvidersConfig{}, nil, nil)
	assert.Empty(t, r.Sources())
	assert.Len(t, r.Status(), 4)
}
