package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request("POST", "/users/create", "", map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "secret-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateUser_Duplicate(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser("alice@example.com", "alice")

	w, body := api.request("POST", "/users/create", "", map[string]any{
		"email":    "other@example.com",
		"username": "alice",
		"password": "secret-password",
	})

	assertConflict(t, w, body, "Registration Error: A user with that e-mail or username already exists.")
}

func TestCreateUser_Validation(t *testing.T) {
	api := newTestAPI(t)

	cases := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"missing email", map[string]any{"username": "alice", "password": "secret-password"}, "email"},
		{"bad email", map[string]any{"email": "not-an-email", "username": "alice", "password": "secret-password"}, "email"},
		{"missing username", map[string]any{"email": "a@example.com", "password": "secret-password"}, "username"},
		{"short password", map[string]any{"email": "a@example.com", "username": "alice", "password": "abc"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := api.request("POST", "/users/create", "", tc.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, body)
			assert.Contains(t, body["message"], "Validation Error:")
			assert.Contains(t, body["message"], tc.field)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.registerUser("alice@example.com", "alice")

	w, body := api.request("POST", "/users/authenticate", "", map[string]any{
		"username": "alice",
		"password": "secret-password",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	require.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, id, user["id"])
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@example.com", user["email"])

	// The issued token authenticates follow-up requests
	token := body["token"].(string)
	w, _ = api.request("GET", "/dashboards/dashboards", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request("POST", "/users/authenticate", "", map[string]any{
		"username": "nobody",
		"password": "secret-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication Error: User not found.", body["message"])
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser("alice@example.com", "alice")

	w, body := api.request("POST", "/users/authenticate", "", map[string]any{
		"username": "alice",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication Error: Password does not match!", body["message"])
}
