// Package storage provides types and interfaces for SQLite persistence operations.
package storage

import (
	"context"
	"encoding/json"
)

// Storage defines the interface for SQLite persistence operations.
//
// Every owner-scoped operation takes the owner id explicitly and filters by
// it; the owner filter is the sole cross-tenant isolation mechanism.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, email, username, password string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	// Dashboard operations
	InsertDashboard(ctx context.Context, d *Dashboard) error
	ListDashboards(ctx context.Context, owner string) ([]*Dashboard, error)
	GetDashboard(ctx context.Context, id, owner string) (*Dashboard, error)
	GetDashboardByID(ctx context.Context, id string) (*Dashboard, error)
	SaveDashboardLayout(ctx context.Context, id, owner string, layout, items json.RawMessage, nextID int64) error
	SetDashboardShared(ctx context.Context, id, owner string, shared bool) error
	SetDashboardPassword(ctx context.Context, id, owner string, passwordHash *string) error
	IncrementDashboardViews(ctx context.Context, id string) error
	DeleteDashboard(ctx context.Context, id, owner string) error

	// Source operations
	InsertSource(ctx context.Context, s *Source) error
	ListSources(ctx context.Context, owner string) ([]*Source, error)
	GetSourceByName(ctx context.Context, owner, name string) (*Source, error)
	UpdateSource(ctx context.Context, s *Source) error
	DeleteSource(ctx context.Context, id, owner string) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
