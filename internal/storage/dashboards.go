package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dashboardColumns = "id, owner, name, layout, items, next_id, shared, password_hash, views, created_at"

// InsertDashboard creates a new dashboard row. The ID and CreatedAt fields
// are filled in on success.
// Returns ErrDuplicate if the owner already has a dashboard with that name.
func (s *SQLiteStorage) InsertDashboard(ctx context.Context, d *Dashboard) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Layout == nil {
		d.Layout = json.RawMessage("[]")
	}
	if d.Items == nil {
		d.Items = json.RawMessage("{}")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dashboards (id, owner, name, layout, items, next_id, shared, password_hash, views)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Owner, d.Name, string(d.Layout), string(d.Items), d.NextID, d.Shared, d.PasswordHash, d.Views)

	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert dashboard: %w", err)
	}

	d.CreatedAt = time.Now()
	return nil
}

// ListDashboards returns all dashboards belonging to owner.
// Returns empty slice if none exist.
func (s *SQLiteStorage) ListDashboards(ctx context.Context, owner string) ([]*Dashboard, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+dashboardColumns+" FROM dashboards WHERE owner = ? ORDER BY created_at DESC",
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboards: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var dashboards []*Dashboard
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, err
		}
		dashboards = append(dashboards, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dashboards: %w", err)
	}

	if dashboards == nil {
		dashboards = make([]*Dashboard, 0)
	}
	return dashboards, nil
}

// GetDashboard retrieves a dashboard by id, scoped to owner.
// Returns ErrNotFound if no dashboard with that id belongs to owner.
func (s *SQLiteStorage) GetDashboard(ctx context.Context, id, owner string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+dashboardColumns+" FROM dashboards WHERE id = ? AND owner = ?",
		id, owner)
	return scanDashboardRow(row)
}

// GetDashboardByID retrieves a dashboard by id regardless of owner, including
// the password hash. This is the access controller's lookup: ownership and
// sharing checks only apply once the entity is confirmed to exist.
// Returns ErrNotFound if the id doesn't exist.
func (s *SQLiteStorage) GetDashboardByID(ctx context.Context, id string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+dashboardColumns+" FROM dashboards WHERE id = ?",
		id)
	return scanDashboardRow(row)
}

// SaveDashboardLayout replaces the widget-layout payload wholesale.
// Returns ErrNotFound if no dashboard with that id belongs to owner.
func (s *SQLiteStorage) SaveDashboardLayout(ctx context.Context, id, owner string, layout, items json.RawMessage, nextID int64) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE dashboards SET layout = ?, items = ?, next_id = ? WHERE id = ? AND owner = ?",
		string(layout), string(items), nextID, id, owner)
	if err != nil {
		return fmt.Errorf("failed to save dashboard: %w", err)
	}
	return requireRowAffected(result)
}

// SetDashboardShared sets the shared flag.
// Returns ErrNotFound if no dashboard with that id belongs to owner.
func (s *SQLiteStorage) SetDashboardShared(ctx context.Context, id, owner string, shared bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE dashboards SET shared = ? WHERE id = ? AND owner = ?",
		shared, id, owner)
	if err != nil {
		return fmt.Errorf("failed to update shared flag: %w", err)
	}
	return requireRowAffected(result)
}

// SetDashboardPassword replaces the password gate. A nil hash clears it.
// Returns ErrNotFound if no dashboard with that id belongs to owner.
func (s *SQLiteStorage) SetDashboardPassword(ctx context.Context, id, owner string, passwordHash *string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE dashboards SET password_hash = ? WHERE id = ? AND owner = ?",
		passwordHash, id, owner)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(result)
}

// IncrementDashboardViews adds one view. The increment is a single atomic
// update so concurrent content reads never lose counts.
// Returns ErrNotFound if the id doesn't exist.
func (s *SQLiteStorage) IncrementDashboardViews(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE dashboards SET views = views + 1 WHERE id = ?",
		id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return requireRowAffected(result)
}

// DeleteDashboard deletes a dashboard, scoped to owner.
// Returns ErrNotFound if no dashboard with that id belongs to owner.
func (s *SQLiteStorage) DeleteDashboard(ctx context.Context, id, owner string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM dashboards WHERE id = ? AND owner = ?",
		id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDashboard(row rowScanner) (*Dashboard, error) {
	var d Dashboard
	var layout, items string
	err := row.Scan(&d.ID, &d.Owner, &d.Name, &layout, &items, &d.NextID, &d.Shared, &d.PasswordHash, &d.Views, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan dashboard row: %w", err)
	}
	d.Layout = json.RawMessage(layout)
	d.Items = json.RawMessage(items)
	return &d, nil
}

func scanDashboardRow(row *sql.Row) (*Dashboard, error) {
	d, err := scanDashboard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func requireRowAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
