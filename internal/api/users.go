package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sipico/dashboard-api/internal/storage"
	"github.com/sipico/dashboard-api/internal/validation"
)

// CreateUserRequest is the request body for POST /users/create
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleCreateUser registers a new account.
// POST /users/create
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Register(req.Email, req.Username, req.Password); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeConflict(w, "Registration Error: A user with that e-mail or username already exists.")
			return
		}
		h.writeInternal(w, "failed to create user", err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	writeSuccess(w, map[string]any{"id": user.ID})
}

// AuthenticateRequest is the request body for POST /users/authenticate
type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleAuthenticate verifies credentials and issues an identity token.
// POST /users/authenticate
func (h *Handler) HandleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.Authenticate(req.Username, req.Password); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Authentication Error: User not found.")
			return
		}
		h.writeInternal(w, "failed to look up user", err)
		return
	}

	if storage.VerifyPassword(req.Password, user.PasswordHash) != nil {
		writeError(w, http.StatusUnauthorized, "Authentication Error: Password does not match!")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.writeInternal(w, "failed to issue token", err)
		return
	}

	writeSuccess(w, map[string]any{
		"user": map[string]any{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"token": token,
	})
}
