package api

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sipico/dashboard-api/internal/access"
	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/storage"
)

// testAPI wires a handler with real :memory: storage behind the full router,
// so tests exercise routing, auth middleware, and response encoding together.
type testAPI struct {
	t      *testing.T
	router http.Handler
	tokens *auth.Codec
	store  *storage.SQLiteStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	store, err := storage.New(":memory:", key)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens := auth.NewCodec([]byte("test-secret"), time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(store, access.NewController(store), tokens, nil, logger)

	return &testAPI{
		t:      t,
		router: handler.NewRouter(),
		tokens: tokens,
		store:  store,
	}
}

// request sends a JSON request through the router. An empty token leaves the
// Authorization header unset. The decoded body is nil when the response is
// not JSON.
func (a *testAPI) request(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		decoded = nil
	}
	return w, decoded
}

// registerUser creates an account and returns its id and a valid token.
func (a *testAPI) registerUser(email, username string) (id, token string) {
	a.t.Helper()

	w, body := a.request("POST", "/users/create", "", map[string]any{
		"email":    email,
		"username": username,
		"password": "secret-password",
	})
	require.Equal(a.t, http.StatusOK, w.Code)
	require.Equal(a.t, true, body["success"], "registration failed: %v", body)

	id, ok := body["id"].(string)
	require.True(a.t, ok, "registration response missing id: %v", body)

	token, err := a.tokens.Issue(id)
	require.NoError(a.t, err)
	return id, token
}

// createDashboard creates a dashboard and returns its id.
func (a *testAPI) createDashboard(token, name string) string {
	a.t.Helper()

	w, body := a.request("POST", "/dashboards/create-dashboard", token, map[string]any{"name": name})
	require.Equal(a.t, http.StatusOK, w.Code)
	require.Equal(a.t, true, body["success"], "create-dashboard failed: %v", body)

	_, list := a.request("GET", "/dashboards/dashboards", token, nil)
	for _, entry := range list["dashboards"].([]any) {
		d := entry.(map[string]any)
		if d["name"] == name {
			return d["id"].(string)
		}
	}
	a.t.Fatalf("dashboard %q not found after create", name)
	return ""
}

// assertConflict checks the embedded business-conflict shape: HTTP 200 with
// status 409 and the given message in the body.
func assertConflict(t *testing.T, w *httptest.ResponseRecorder, body map[string]any, message string) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, http.StatusConflict, body["status"])
	require.Equal(t, message, body["message"])
}
