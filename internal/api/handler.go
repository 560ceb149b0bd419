// Package api provides the HTTP endpoints of the dashboard service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/sipico/dashboard-api/internal/access"
	"github.com/sipico/dashboard-api/internal/auth"
	"github.com/sipico/dashboard-api/internal/storage"
)

// Storage is the slice of the store the handlers need.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, email, username, password string) (*storage.User, error)
	GetUserByUsername(ctx context.Context, username string) (*storage.User, error)

	// Dashboard operations
	InsertDashboard(ctx context.Context, d *storage.Dashboard) error
	ListDashboards(ctx context.Context, owner string) ([]*storage.Dashboard, error)
	GetDashboard(ctx context.Context, id, owner string) (*storage.Dashboard, error)
	SaveDashboardLayout(ctx context.Context, id, owner string, layout, items json.RawMessage, nextID int64) error
	SetDashboardShared(ctx context.Context, id, owner string, shared bool) error
	SetDashboardPassword(ctx context.Context, id, owner string, passwordHash *string) error
	DeleteDashboard(ctx context.Context, id, owner string) error

	// Source operations
	InsertSource(ctx context.Context, s *storage.Source) error
	ListSources(ctx context.Context, owner string) ([]*storage.Source, error)
	GetSourceByName(ctx context.Context, owner, name string) (*storage.Source, error)
	UpdateSource(ctx context.Context, s *storage.Source) error
	DeleteSource(ctx context.Context, id, owner string) error

	// Health check
	Ping(ctx context.Context) error
}

// Handler provides the dashboard API endpoints.
type Handler struct {
	store    Storage
	access   *access.Controller
	tokens   *auth.Codec
	logger   *slog.Logger
	logLevel *slog.LevelVar
}

// NewHandler creates an API handler.
func NewHandler(store Storage, accessCtrl *access.Controller, tokens *auth.Codec, logLevel *slog.LevelVar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}

	return &Handler{
		store:    store,
		access:   accessCtrl,
		tokens:   tokens,
		logger:   logger,
		logLevel: logLevel,
	}
}
