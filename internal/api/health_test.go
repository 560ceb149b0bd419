package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestReady(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request("GET", "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "connected", body["database"])
}

func TestSetLogLevel(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser("alice@example.com", "alice")

	// Requires a token
	w, _ := api.request("POST", "/api/loglevel", "", map[string]any{"level": "debug"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := api.request("POST", "/api/loglevel", token, map[string]any{"level": "debug"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "debug", body["level"])

	w, body = api.request("POST", "/api/loglevel", token, map[string]any{"level": "verbose"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["message"], "Invalid level")
}
