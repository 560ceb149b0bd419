package api

import (
	"encoding/json"
	"net/http"
)

// Response conventions, kept compatible with the clients of the original
// service: business outcomes (name conflicts, not-found, wrong password)
// travel as HTTP 200 with an embedded {status, message} body; only
// transport-level failures (auth, validation, unexpected errors) use a
// non-200 HTTP status.

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		// Encoding errors are not critical since headers are already sent
		_ = err
	}
}

// writeSuccess writes {"success":true} merged with payload.
func writeSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeConflict reports a recoverable business conflict: duplicate name,
// entity not found for this owner, and similar precondition failures.
func writeConflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  http.StatusConflict,
		"message": message,
	})
}

// writeError reports a transport-level failure with a real HTTP status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"message": message,
	})
}

// writeValidationError reports a body that failed schema checks, naming the
// first failing field.
func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "Validation Error: "+err.Error())
}

// writeInternal suppresses the detailed message in the response and keeps it
// for operator-side logging.
func (h *Handler) writeInternal(w http.ResponseWriter, what string, err error) {
	h.logger.Error(what, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error occurred.")
}
