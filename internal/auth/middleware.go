package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sipico/dashboard-api/internal/metrics"
)

// Middleware returns chi-compatible middleware that requires a valid identity
// token. On success the resolved user id is attached to the request context;
// on failure the request is rejected with 401 before any handler logic runs.
func Middleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				metrics.RecordAuthFailure("missing_token")
				writeAuthError(w, "Authorization Error: token is missing.")
				return
			}

			userID, err := codec.Verify(token)
			if err != nil {
				metrics.RecordAuthFailure("invalid_token")
				writeAuthError(w, "Authorization Error: Failed to verify token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID)))
		})
	}
}

// OptionalMiddleware resolves an identity when a valid token is present and
// passes the request through anonymously otherwise. Used by the public
// sharing endpoints, where the viewer may or may not be the owner.
func OptionalMiddleware(codec *Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if userID, err := codec.Verify(token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken gets the token from "Authorization: Bearer <token>" or, for
// compatibility with existing clients, the "token" query parameter.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}

// writeAuthError writes the 401 response. Auth failures are transport-level
// and use a real HTTP status, unlike business conflicts.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	err := json.NewEncoder(w).Encode(map[string]any{
		"status":  http.StatusUnauthorized,
		"message": message,
	})
	if err != nil {
		// Encoding errors are not critical for error responses
		_ = err
	}
}
