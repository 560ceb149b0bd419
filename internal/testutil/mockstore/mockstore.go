// Package mockstore provides a configurable mock implementation of storage
// interfaces for testing.
//
// The MockStorage type uses function fields for each method, allowing tests
// to customize behavior as needed while providing sensible defaults for
// methods that aren't customized.
package mockstore

import (
	"context"
	"encoding/json"

	"github.com/sipico/dashboard-api/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.Storage.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a sensible default value.
type MockStorage struct {
	// User operations
	CreateUserFunc        func(ctx context.Context, email, username, password string) (*storage.User, error)
	GetUserByUsernameFunc func(ctx context.Context, username string) (*storage.User, error)
	GetUserByIDFunc       func(ctx context.Context, id string) (*storage.User, error)

	// Dashboard operations
	InsertDashboardFunc        func(ctx context.Context, d *storage.Dashboard) error
	ListDashboardsFunc         func(ctx context.Context, owner string) ([]*storage.Dashboard, error)
	GetDashboardFunc           func(ctx context.Context, id, owner string) (*storage.Dashboard, error)
	GetDashboardByIDFunc       func(ctx context.Context, id string) (*storage.Dashboard, error)
	SaveDashboardLayoutFunc    func(ctx context.Context, id, owner string, layout, items json.RawMessage, nextID int64) error
	SetDashboardSharedFunc     func(ctx context.Context, id, owner string, shared bool) error
	SetDashboardPasswordFunc   func(ctx context.Context, id, owner string, passwordHash *string) error
	IncrementDashboardViewsFunc func(ctx context.Context, id string) error
	DeleteDashboardFunc        func(ctx context.Context, id, owner string) error

	// Source operations
	InsertSourceFunc    func(ctx context.Context, s *storage.Source) error
	ListSourcesFunc     func(ctx context.Context, owner string) ([]*storage.Source, error)
	GetSourceByNameFunc func(ctx context.Context, owner, name string) (*storage.Source, error)
	UpdateSourceFunc    func(ctx context.Context, s *storage.Source) error
	DeleteSourceFunc    func(ctx context.Context, id, owner string) error

	// Lifecycle
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

// CreateUser registers a new account.
func (m *MockStorage) CreateUser(ctx context.Context, email, username, password string) (*storage.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, email, username, password)
	}
	return &storage.User{ID: "user-1", Email: email, Username: username}, nil
}

// GetUserByUsername retrieves a user by username.
func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	if m.GetUserByUsernameFunc != nil {
		return m.GetUserByUsernameFunc(ctx, username)
	}
	return nil, storage.ErrNotFound
}

// GetUserByID retrieves a user by id.
func (m *MockStorage) GetUserByID(ctx context.Context, id string) (*storage.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// InsertDashboard creates a dashboard row.
func (m *MockStorage) InsertDashboard(ctx context.Context, d *storage.Dashboard) error {
	if m.InsertDashboardFunc != nil {
		return m.InsertDashboardFunc(ctx, d)
	}
	return nil
}

// ListDashboards returns an owner's dashboards.
func (m *MockStorage) ListDashboards(ctx context.Context, owner string) ([]*storage.Dashboard, error) {
	if m.ListDashboardsFunc != nil {
		return m.ListDashboardsFunc(ctx, owner)
	}
	return make([]*storage.Dashboard, 0), nil
}

// GetDashboard retrieves a dashboard scoped to owner.
func (m *MockStorage) GetDashboard(ctx context.Context, id, owner string) (*storage.Dashboard, error) {
	if m.GetDashboardFunc != nil {
		return m.GetDashboardFunc(ctx, id, owner)
	}
	return nil, storage.ErrNotFound
}

// GetDashboardByID retrieves a dashboard regardless of owner.
func (m *MockStorage) GetDashboardByID(ctx context.Context, id string) (*storage.Dashboard, error) {
	if m.GetDashboardByIDFunc != nil {
		return m.GetDashboardByIDFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// SaveDashboardLayout replaces the widget payload.
func (m *MockStorage) SaveDashboardLayout(ctx context.Context, id, owner string, layout, items json.RawMessage, nextID int64) error {
	if m.SaveDashboardLayoutFunc != nil {
		return m.SaveDashboardLayoutFunc(ctx, id, owner, layout, items, nextID)
	}
	return nil
}

// SetDashboardShared sets the shared flag.
func (m *MockStorage) SetDashboardShared(ctx context.Context, id, owner string, shared bool) error {
	if m.SetDashboardSharedFunc != nil {
		return m.SetDashboardSharedFunc(ctx, id, owner, shared)
	}
	return nil
}

// SetDashboardPassword replaces the password gate.
func (m *MockStorage) SetDashboardPassword(ctx context.Context, id, owner string, passwordHash *string) error {
	if m.SetDashboardPasswordFunc != nil {
		return m.SetDashboardPasswordFunc(ctx, id, owner, passwordHash)
	}
	return nil
}

// IncrementDashboardViews adds one view.
func (m *MockStorage) IncrementDashboardViews(ctx context.Context, id string) error {
	if m.IncrementDashboardViewsFunc != nil {
		return m.IncrementDashboardViewsFunc(ctx, id)
	}
	return nil
}

// DeleteDashboard deletes a dashboard scoped to owner.
func (m *MockStorage) DeleteDashboard(ctx context.Context, id, owner string) error {
	if m.DeleteDashboardFunc != nil {
		return m.DeleteDashboardFunc(ctx, id, owner)
	}
	return nil
}

// InsertSource creates a source row.
func (m *MockStorage) InsertSource(ctx context.Context, s *storage.Source) error {
	if m.InsertSourceFunc != nil {
		return m.InsertSourceFunc(ctx, s)
	}
	return nil
}

// ListSources returns an owner's sources.
func (m *MockStorage) ListSources(ctx context.Context, owner string) ([]*storage.Source, error) {
	if m.ListSourcesFunc != nil {
		return m.ListSourcesFunc(ctx, owner)
	}
	return make([]*storage.Source, 0), nil
}

// GetSourceByName retrieves a source by name scoped to owner.
func (m *MockStorage) GetSourceByName(ctx context.Context, owner, name string) (*storage.Source, error) {
	if m.GetSourceByNameFunc != nil {
		return m.GetSourceByNameFunc(ctx, owner, name)
	}
	return nil, storage.ErrNotFound
}

// UpdateSource replaces a source's metadata.
func (m *MockStorage) UpdateSource(ctx context.Context, s *storage.Source) error {
	if m.UpdateSourceFunc != nil {
		return m.UpdateSourceFunc(ctx, s)
	}
	return nil
}

// DeleteSource deletes a source scoped to owner.
func (m *MockStorage) DeleteSource(ctx context.Context, id, owner string) error {
	if m.DeleteSourceFunc != nil {
		return m.DeleteSourceFunc(ctx, id, owner)
	}
	return nil
}

// Ping verifies connectivity.
func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close closes the store.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
