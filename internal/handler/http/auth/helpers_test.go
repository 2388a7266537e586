package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/tokenstore"
	authsvc "news-aggregator/internal/service/auth"
)

const testSecret = "test-secret-key-at-least-32-characters-long"

type memUsers struct {
	mu   sync.Mutex
	byID map[int64]*entity.User
	next int64
}

func (m *memUsers) find(email string) *entity.User {
	for _, u := range m.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(u.Email) != nil {
		return entity.ErrAlreadyExists
	}
	m.next++
	u.ID = m.next
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.find(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if other := m.find(u.Email); other != nil && other.ID != u.ID {
		return entity.ErrAlreadyExists
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return entity.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) UpdateRole(_ context.Context, id int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return entity.ErrNotFound
	}
	u.Role = role
	return nil
}

// newServer wires the account routes over in-memory storage.
func newServer(t *testing.T, admins ...string) *httptest.Server {
	t.Helper()
	svc := authsvc.NewService(&memUsers{byID: map[int64]*entity.User{}},
		authsvc.NewTokens(testSecret, time.Hour), tokenstore.NewMemory(), admins)
	mux := http.NewServeMux()
	mw := NewMiddleware(svc, nil)
	Register(mux, Handler{Svc: svc}, mw)
	mux.Handle("GET /api/admin/ping", mw.AdminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, http.StatusOK, "pong", nil)
	})))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (int, respond.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env respond.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// registerUser returns the issued token.
func registerUser(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	code, env := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Test User", "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	data := env.Data.(map[string]any)
	return data["token"].(string)
}
