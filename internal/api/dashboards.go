package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sipico/dashboard-api/internal/access"
	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/metrics"
	"github.com/sipico/dashboard-api/internal/storage"
	"github.com/sipico/dashboard-api/internal/validation"
)

const (
	msgDashboardNameTaken    = "A dashboard with that name already exists."
	msgSelectedDashboardGone = "The selected dashboard has not been found."
	msgDashboardGone         = "The specified dashboard has not been found."
)

// HandleListDashboards lists the caller's dashboards.
// GET /dashboards/dashboards
func (h *Handler) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	owner := auth.IdentityFromContext(r.Context())

	found, err := h.store.ListDashboards(r.Context(), owner)
	if err != nil {
		h.writeInternal(w, "failed to list dashboards", err)
		return
	}

	dashboards := make([]map[string]any, 0, len(found))
	for _, d := range found {
		dashboards = append(dashboards, map[string]any{
			"id":    d.ID,
			"name":  d.Name,
			"views": d.Views,
		})
	}

	writeSuccess(w, map[string]any{"dashboards": dashboards})
}

// CreateDashboardRequest is the request body for POST /dashboards/create-dashboard
type CreateDashboardRequest struct {
	Name string `json:"name"`
}

// HandleCreateDashboard creates an empty dashboard for the caller.
// POST /dashboards/create-dashboard
func (h *Handler) HandleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req CreateDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.EntityName("name", req.Name); err != nil {
		writeValidationError(w, err)
		return
	}

	d := &storage.Dashboard{
		Owner:  auth.IdentityFromContext(r.Context()),
		Name:   req.Name,
		NextID: 1,
	}
	if err := h.store.InsertDashboard(r.Context(), d); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeConflict(w, msgDashboardNameTaken)
			return
		}
		h.writeInternal(w, "failed to create dashboard", err)
		return
	}

	writeSuccess(w, nil)
}

// DeleteDashboardRequest is the request body for POST /dashboards/delete-dashboard
type DeleteDashboardRequest struct {
	ID string `json:"id"`
}

// HandleDeleteDashboard deletes one of the caller's dashboards.
// POST /dashboards/delete-dashboard
func (h *Handler) HandleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	var req DeleteDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	if err := h.store.DeleteDashboard(r.Context(), req.ID, owner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedDashboardGone)
			return
		}
		h.writeInternal(w, "failed to delete dashboard", err)
		return
	}

	writeSuccess(w, nil)
}

// HandleGetDashboard returns one of the caller's dashboards with the full
// widget payload, plus the caller's source names for the editor.
// GET /dashboards/dashboard?id=...
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	owner := auth.IdentityFromContext(r.Context())

	d, err := h.store.GetDashboard(r.Context(), id, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedDashboardGone)
			return
		}
		h.writeInternal(w, "failed to get dashboard", err)
		return
	}

	found, err := h.store.ListSources(r.Context(), owner)
	if err != nil {
		h.writeInternal(w, "failed to list sources", err)
		return
	}
	sources := make([]string, 0, len(found))
	for _, s := range found {
		sources = append(sources, s.Name)
	}

	writeSuccess(w, map[string]any{
		"dashboard": map[string]any{
			"id":     d.ID,
			"name":   d.Name,
			"layout": d.Layout,
			"items":  d.Items,
			"nextId": d.NextID,
		},
		"sources": sources,
	})
}

// SaveDashboardRequest is the request body for POST /dashboards/save-dashboard
type SaveDashboardRequest struct {
	ID     string          `json:"id"`
	Layout json.RawMessage `json:"layout"`
	Items  json.RawMessage `json:"items"`
	NextID int64           `json:"nextId"`
}

// HandleSaveDashboard replaces the widget payload wholesale.
// POST /dashboards/save-dashboard
func (h *Handler) HandleSaveDashboard(w http.ResponseWriter, r *http.Request) {
	var req SaveDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	err := h.store.SaveDashboardLayout(r.Context(), req.ID, owner, req.Layout, req.Items, req.NextID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedDashboardGone)
			return
		}
		h.writeInternal(w, "failed to save dashboard", err)
		return
	}

	writeSuccess(w, nil)
}

// CloneDashboardRequest is the request body for POST /dashboards/clone-dashboard
type CloneDashboardRequest struct {
	DashboardID string `json:"dashboardId"`
	Name        string `json:"name"`
}

// HandleCloneDashboard copies the widget payload of one of the caller's
// dashboards under a new name.
// POST /dashboards/clone-dashboard
func (h *Handler) HandleCloneDashboard(w http.ResponseWriter, r *http.Request) {
	var req CloneDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.EntityName("name", req.Name); err != nil {
		writeValidationError(w, err)
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	old, err := h.store.GetDashboard(r.Context(), req.DashboardID, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgSelectedDashboardGone)
			return
		}
		h.writeInternal(w, "failed to get dashboard", err)
		return
	}

	clone := &storage.Dashboard{
		Owner:  owner,
		Name:   req.Name,
		Layout: old.Layout,
		Items:  old.Items,
		NextID: old.NextID,
	}
	if err := h.store.InsertDashboard(r.Context(), clone); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeConflict(w, msgDashboardNameTaken)
			return
		}
		h.writeInternal(w, "failed to clone dashboard", err)
		return
	}

	writeSuccess(w, nil)
}

// ShareDashboardRequest is the request body for POST /dashboards/share-dashboard
type ShareDashboardRequest struct {
	DashboardID string `json:"dashboardId"`
}

// HandleShareDashboard toggles the shared flag unconditionally.
// POST /dashboards/share-dashboard
func (h *Handler) HandleShareDashboard(w http.ResponseWriter, r *http.Request) {
	var req ShareDashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	owner := auth.IdentityFromContext(r.Context())
	d, err := h.store.GetDashboard(r.Context(), req.DashboardID, owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgDashboardGone)
			return
		}
		h.writeInternal(w, "failed to get dashboard", err)
		return
	}

	shared := !d.Shared
	if err := h.store.SetDashboardShared(r.Context(), req.DashboardID, owner, shared); err != nil {
		h.writeInternal(w, "failed to toggle share", err)
		return
	}

	writeSuccess(w, map[string]any{"shared": shared})
}

// ChangePasswordRequest is the request body for POST /dashboards/change-password
type ChangePasswordRequest struct {
	DashboardID string `json:"dashboardId"`
	Password    string `json:"password"`
}

// HandleChangePassword replaces the password gate. An empty password clears
// it, which is how a shared dashboard stops challenging viewers.
// POST /dashboards/change-password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validation.DashboardPassword(req.Password); err != nil {
		writeValidationError(w, err)
		return
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := storage.HashPassword(req.Password)
		if err != nil {
			h.writeInternal(w, "failed to hash password", err)
			return
		}
		passwordHash = &hash
	}

	owner := auth.IdentityFromContext(r.Context())
	if err := h.store.SetDashboardPassword(r.Context(), req.DashboardID, owner, passwordHash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeConflict(w, msgDashboardGone)
			return
		}
		h.writeInternal(w, "failed to change password", err)
		return
	}

	writeSuccess(w, nil)
}

// CheckPasswordNeededRequest is the request body for POST /dashboards/check-password-needed
type CheckPasswordNeededRequest struct {
	DashboardID string `json:"dashboardId"`
}

// HandleCheckPasswordNeeded resolves a view request against the sharing
// gate. The caller may be anonymous; the owner is recognized from an
// optional token.
// POST /dashboards/check-password-needed
func (h *Handler) HandleCheckPasswordNeeded(w http.ResponseWriter, r *http.Request) {
	var req CheckPasswordNeededRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	viewer := auth.IdentityFromContext(r.Context())
	res, err := h.access.Resolve(r.Context(), req.DashboardID, viewer)
	if err != nil {
		h.writeInternal(w, "failed to resolve dashboard access", err)
		return
	}

	switch res.State {
	case access.StateOwner:
		metrics.RecordDashboardView("owner")
		writeSuccess(w, map[string]any{
			"owner":       "self",
			"shared":      res.Dashboard.Shared,
			"hasPassword": res.Dashboard.HasPassword(),
			"dashboard":   dashboardContent(res.Dashboard),
		})

	case access.StateNotShared:
		writeSuccess(w, map[string]any{
			"owner":  "",
			"shared": false,
		})

	case access.StateSharedOpen:
		metrics.RecordDashboardView("shared_open")
		writeSuccess(w, map[string]any{
			"owner":          res.Dashboard.Owner,
			"shared":         true,
			"passwordNeeded": false,
			"dashboard":      dashboardContent(res.Dashboard),
		})

	case access.StatePasswordRequired:
		writeSuccess(w, map[string]any{
			"owner":          "",
			"shared":         true,
			"passwordNeeded": true,
		})

	default: // access.StateNotFound
		writeConflict(w, msgDashboardGone)
	}
}

// CheckPasswordRequest is the request body for POST /dashboards/check-password
type CheckPasswordRequest struct {
	DashboardID string `json:"dashboardId"`
	Password    string `json:"password"`
}

// HandleCheckPassword verifies a viewer's password attempt against the gate.
// A wrong password is a normal negative result, not an error.
// POST /dashboards/check-password
func (h *Handler) HandleCheckPassword(w http.ResponseWriter, r *http.Request) {
	var req CheckPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.access.CheckPassword(r.Context(), req.DashboardID, req.Password)
	if err != nil {
		h.writeInternal(w, "failed to check dashboard password", err)
		return
	}

	if !res.Found {
		writeConflict(w, msgDashboardGone)
		return
	}
	if !res.Correct {
		writeSuccess(w, map[string]any{"correctPassword": false})
		return
	}

	metrics.RecordDashboardView("password")
	writeSuccess(w, map[string]any{
		"correctPassword": true,
		"owner":           res.Dashboard.Owner,
		"dashboard":       dashboardContent(res.Dashboard),
	})
}

// dashboardContent is the payload delivered to viewers; it never includes
// the password hash.
func dashboardContent(d *storage.Dashboard) map[string]any {
	return map[string]any{
		"name":   d.Name,
		"layout": d.Layout,
		"items":  d.Items,
	}
}
