package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	srv := newServer(t)

	code, env := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Jane", "email": "Jane@Example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	user := env.Data.(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password_hash")

	code, env = call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "jane@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Message, "already exists")
}

func TestRegister_Validation(t *testing.T) {
	srv := newServer(t)
	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"short password", map[string]string{"name": "a", "email": "a@b.co", "password": "short"}, "password"},
		{"bad email", map[string]string{"name": "a", "email": "not-an-email", "password": "password123"}, "email"},
		{"missing name", map[string]string{"email": "a@b.co", "password": "password123"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := call(t, srv, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			require.Len(t, env.Errors, 1)
			assert.Equal(t, tt.field, env.Errors[0].Field)
		})
	}
}

func TestLogin(t *testing.T) {
	srv := newServer(t)
	registerUser(t, srv, "bob@example.com")

	code, env := call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, env.Data.(map[string]any)["token"])

	code, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "bob@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMeAndLogout(t *testing.T) {
	srv := newServer(t)
	token := registerUser(t, srv, "carol@example.com")

	code, env := call(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "carol@example.com", env.Data.(map[string]any)["email"])

	code, _ = call(t, srv, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", env.Message)
}

func TestUpdateProfile(t *testing.T) {
	srv := newServer(t)
	registerUser(t, srv, "taken@example.com")
	token := registerUser(t, srv, "dave@example.com")

	code, env := call(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{"name": "David"})
	require.Equal(t, http.StatusOK, code)
	data := env.Data.(map[string]any)
	assert.Equal(t, "David", data["name"])
	assert.Equal(t, "dave@example.com", data["email"])

	code, _ = call(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{"email": "taken@example.com"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestChangePassword(t *testing.T) {
	srv := newServer(t)
	token := registerUser(t, srv, "erin@example.com")
	path := "/api/auth/change-password"

	code, _ := call(t, srv, http.MethodPut, path, token, map[string]string{
		"current_password": "password123", "new_password": "newpassword1", "new_password_confirmation": "different1",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, srv, http.MethodPut, path, token, map[string]string{
		"current_password": "wrong-current", "new_password": "newpassword1", "new_password_confirmation": "newpassword1",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := call(t, srv, http.MethodPut, path, token, map[string]string{
		"current_password": "password123", "new_password": "newpassword1", "new_password_confirmation": "newpassword1",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, env.Message, "changed successfully")

	code, _ = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "erin@example.com", "password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, code)
}
