package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/storage"
	"github.com/sipico/dashboard-api/internal/validation"
)

const (
	msgSourceNameTaken    = "A source with that name already exists."
	msgSourceRenameTaken  = "A source with the same name has been found."
	msgSelectedSourceGone = "The selected source has not been found."
)

// HandleListSources lists the caller's sources with decrypted connection
// metadata.
// GET /sources/sources
func (h *Handler) HandleListSources(w http.ResponseWriter, r *http.Request) {
	owner := auth.IdentityFromContext(r.Context())

	found, err := h.store.ListSources(r.Context(), owner)
	if err != nil {
		h.writeInternal(w, "failed to list sources", err)
		return
	}

	sources := make([]map[string]any, 0, len(found))
	for _, s := range found {
		sources = append(sources, map[string]any{
			"id":       s.ID,
			"name":     s.Name,
			"type":     s.Type,
			"url":      s.URL,
			"login":    s.Login,
			"passcode": s.Passcode,
			"vhost":    s.VHost,
			"active":   false,
		})
	}

	writeSuccess(w, map[string]any{"sources": sources})
}

// SourceRequest is the request body for source create and change.
type SourceRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	Login    string `json:"login"`
	Passcode string `json:"passcode"`
	VHost    string `json:"vhost"`
}

// HandleCreateSource creates a new source for the caller.
// POST /sources/create-source
func (h *Handler) HandleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.EntityName("name", req.Name); err != nil {
		writeValidationError(w, err)
		return
	}

	src := &storage.Source{
		Owner:    auth.IdentityFromContext(r.Context()),
		Name:     req.Name,
		Type:     req.Type,
		URL:      req.URL,
		Login:    req.Login,
		Passcode: req.Passcode,
		VHost:    req.VHost,
	}
	if err := h.store.InsertSource(r.Context(), src); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeConflict(w, msgSourceNameTaken)
			return
		}
		h.writeInternal(w, "failed to create source", err)
		return
	}

	writeSuccess(w, nil)
}

// HandleChangeSource replaces a source's connection metadata.
// POST /sources/change-source
func (h *Handler) HandleChangeSource(w http.ResponseWriter, r *http.Request) {
	var req SourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.EntityName("name", req.Name); err != nil {
		writeValidationError(w, err)
		return
	}

	src := &storage.Source{
		ID:       req.ID,
		Owner:    auth.IdentityFromContext(r.Context()),
		Name:     req.Name,
		Type:     req.Type,
		URL:      req.URL,
		Login:    req.Login,
		Passcode: req.Passcode,
		VHost:    req.VHost,
	}
	if err := h.store.UpdateSource(r.Context(), src); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeConflict(w, msgSelectedSourceGone)
		case errors.Is(err, storage.ErrDuplicate):
			writeConflict(w, msgSourceRenameTaken)
		default:
			h.writeInternal(w, "failed to change source", err)
		}
		return
	}

	writeSuccess(w, nil)
}

// DeleteSourceRequest is the request body for POST /sources/delete-source
type DeleteSourceRequest struct {
	ID string `json:"id"`
}

// HandleDeleteSource deletes one of the caller's sources.
// POST /sources/delete-source
func (h *Handler) HandleDeleteSource(w http.ResponseWriter, r *http.Request) {
	var req DeleteSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	if err := h.store.DeleteSource(r.Context(), req.ID, owner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedSourceGone)
			return
		}
		h.writeInternal(w, "failed to delete source", err)
		return
	}

	writeSuccess(w, nil)
}

// GetSourceRequest is the request body for POST /sources/source
type GetSourceRequest struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// HandleGetSource returns connection metadata for a named source. Viewers of
// a shared dashboard pass the dashboard owner's id; the owner passes "self",
// resolved from the optional token.
// POST /sources/source
func (h *Handler) HandleGetSource(w http.ResponseWriter, r *http.Request) {
	var req GetSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := req.Owner
	if owner == "self" {
		owner = auth.IdentityFromContext(r.Context())
	}

	src, err := h.store.GetSourceByName(r.Context(), owner, req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedSourceGone)
			return
		}
		h.writeInternal(w, "failed to get source", err)
		return
	}

	writeSuccess(w, map[string]any{
		"source": map[string]any{
			"type":     src.Type,
			"url":      src.URL,
			"login":    src.Login,
			"passcode": src.Passcode,
			"vhost":    src.VHost,
		},
	})
}

// CheckSourcesRequest is the request body for POST /sources/check-sources
type CheckSourcesRequest struct {
	Sources []string `json:"sources"`
}

// HandleCheckSources ensures every named source exists for the caller,
// creating missing ones with stomp defaults. Returns the names that were
// newly created.
// POST /sources/check-sources
func (h *Handler) HandleCheckSources(w http.ResponseWriter, r *http.Request) {
	var req CheckSourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	newSources := make([]string, 0)

	for _, name := range req.Sources {
		_, err := h.store.GetSourceByName(r.Context(), owner, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			h.writeInternal(w, "failed to check source", err)
			return
		}

		src := &storage.Source{Owner: owner, Name: name, Type: "stomp"}
		if err := h.store.InsertSource(r.Context(), src); err != nil {
			// A concurrent writer may have created it between the check
			// and the insert; the constraint is the source of truth.
			if errors.Is(err, storage.ErrDuplicate) {
				continue
			}
			h.writeInternal(w, "failed to create source", err)
			return
		}
		newSources = append(newSources, name)
	}

	writeSuccess(w, map[string]any{"newSources": newSources})
}
