package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createSource(t *testing.T, api *testAPI, token string, payload map[string]any) string {
	t.Helper()

	w, body := api.request("POST", "/sources/create-source", token, payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["success"], "create-source failed: %v", body)

	_, list := api.request("GET", "/sources/sources", token, nil)
	for _, entry := range list["sources"].([]any) {
		s := entry.(map[string]any)
		if s["name"] == payload["name"] {
			return s["id"].(string)
		}
	}
	t.Fatalf("source %q not found after create", payload["name"])
	return ""
}

func TestSources_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.request("GET", "/sources/sources", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, body["message"], "Authorization Error:")
}

func TestCreateAndListSources(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser("alice@example.com", "alice")

	createSource(t, api, token, map[string]any{
		"name":     "queue",
		"type":     "stomp",
		"url":      "wss://broker.example.com/ws",
		"login":    "guest",
		"passcode": "guest-passcode",
		"vhost":    "/",
	})

	_, body := api.request("GET", "/sources/sources", token, nil)
	sources := body["sources"].([]any)
	require.Len(t, sources, 1)
	src := sources[0].(map[string]any)
	assert.Equal(t, "queue", src["name"])
	assert.Equal(t, "stomp", src["type"])
	assert.Equal(t, "guest-passcode", src["passcode"])
	assert.Equal(t, false, src["active"])

	// Duplicate name under the same owner conflicts
	w, body := api.request("POST", "/sources/create-source", token, map[string]any{"name": "queue"})
	assertConflict(t, w, body, "A source with that name already exists.")

	// Another owner may reuse the name
	_, bobToken := api.registerUser("bob@example.com", "bob")
	w, body = api.request("POST", "/sources/create-source", bobToken, map[string]any{"name": "queue"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestChangeSource(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser("alice@example.com", "alice")

	id := createSource(t, api, token, map[string]any{"name": "first", "url": "wss://old"})
	createSource(t, api, token, map[string]any{"name": "second"})

	// Update metadata in place
	w, body := api.request("POST", "/sources/change-source", token, map[string]any{
		"id":       id,
		"name":     "first",
		"type":     "stomp",
		"url":      "wss://new",
		"login":    "guest",
		"passcode": "rotated-passcode",
		"vhost":    "/",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	_, body = api.request("GET", "/sources/sources", token, nil)
	for _, entry := range body["sources"].([]any) {
		s := entry.(map[string]any)
		if s["id"] == id {
			assert.Equal(t, "wss://new", s["url"])
			assert.Equal(t, "rotated-passcode", s["passcode"])
		}
	}

	// Renaming onto a taken name conflicts
	w, body = api.request("POST", "/sources/change-source", token, map[string]any{
		"id":   id,
		"name": "second",
	})
	assertConflict(t, w, body, "A source with the same name has been found.")

	// Unknown id is a distinct conflict
	w, body = api.request("POST", "/sources/change-source", token, map[string]any{
		"id":   "missing",
		"name": "third",
	})
	assertConflict(t, w, body, "The selected source has not been found.")
}

func TestDeleteSource(t *testing.T) {
	api := newTestAPI(t)
	_, aliceToken := api.registerUser("alice@example.com", "alice")
	_, bobToken := api.registerUser("bob@example.com", "bob")
	id := createSource(t, api, aliceToken, map[string]any{"name": "queue"})

	// Bob cannot delete Alice's source
	w, body := api.request("POST", "/sources/delete-source", bobToken, map[string]any{"id": id})
	assertConflict(t, w, body, "The selected source has not been found.")

	w, body = api.request("POST", "/sources/delete-source", aliceToken, map[string]any{"id": id})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	_, body = api.request("GET", "/sources/sources", aliceToken, nil)
	assert.Len(t, body["sources"], 0)
}

func TestGetSource(t *testing.T) {
	api := newTestAPI(t)
	aliceID, token := api.registerUser("alice@example.com", "alice")
	createSource(t, api, token, map[string]any{
		"name":     "queue",
		"type":     "stomp",
		"url":      "wss://broker.example.com/ws",
		"login":    "guest",
		"passcode": "guest-passcode",
		"vhost":    "/",
	})

	// The owner resolves "self" from the token
	w, body := api.request("POST", "/sources/source", token, map[string]any{
		"name":  "queue",
		"owner": "self",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	src := body["source"].(map[string]any)
	assert.Equal(t, "wss://broker.example.com/ws", src["url"])
	assert.Equal(t, "guest-passcode", src["passcode"])

	// A viewer of a shared dashboard passes the owner's id, no token needed
	w, body = api.request("POST", "/sources/source", "", map[string]any{
		"name":  "queue",
		"owner": aliceID,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest-passcode", body["source"].(map[string]any)["passcode"])

	// Unknown name is a business conflict
	w, body = api.request("POST", "/sources/source", token, map[string]any{
		"name":  "missing",
		"owner": "self",
	})
	assertConflict(t, w, body, "The selected source has not been found.")
}

func TestCheckSources(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.registerUser("alice@example.com", "alice")
	createSource(t, api, token, map[string]any{"name": "existing"})

	w, body := api.request("POST", "/sources/check-sources", token, map[string]any{
		"sources": []string{"existing", "fresh-a", "fresh-b"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.ElementsMatch(t, []any{"fresh-a", "fresh-b"}, body["newSources"])

	// Created placeholders default to the stomp type
	_, body = api.request("GET", "/sources/sources", token, nil)
	require.Len(t, body["sources"], 3)
	for _, entry := range body["sources"].([]any) {
		s := entry.(map[string]any)
		if s["name"] != "existing" {
			assert.Equal(t, "stomp", s["type"])
		}
	}

	// A second pass creates nothing
	_, body = api.request("POST", "/sources/check-sources", token, map[string]any{
		"sources": []string{"existing", "fresh-a", "fresh-b"},
	})
	assert.Len(t, body["newSources"], 0)
}
