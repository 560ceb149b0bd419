// Package access resolves who may read a dashboard and drives view counting.
//
// The sharing gate is the combination of the shared flag and the optional
// password: a dashboard is reachable without ownership only when shared, and
// only past the password gate when one is set. Resolution is modeled as an
// explicit state so every branch is enumerated rather than implied by nested
// conditionals.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/sipico/dashboard-api/internal/storage"
)

// State is the outcome of resolving one view request against a dashboard.
type State int

const (
	// StateNotFound - no dashboard with that id exists. Ownership and
	// sharing are only meaningful once the entity is confirmed to exist,
	// so a bad id resolves here regardless of caller identity.
	StateNotFound State = iota
	// StateOwner - the caller owns the dashboard. Content is returned and
	// the view counts regardless of the sharing gate.
	StateOwner
	// StateNotShared - a non-owner asked for an unshared dashboard. No
	// content, no view.
	StateNotShared
	// StateSharedOpen - shared with no password gate. Content is returned
	// and the view counts.
	StateSharedOpen
	// StatePasswordRequired - shared behind a password gate the caller has
	// not yet passed. No content, no view.
	StatePasswordRequired
)

// Resolution is the result of resolving a view request. Dashboard is set
// only for the content-bearing states (StateOwner, StateSharedOpen).
type Resolution struct {
	State     State
	Dashboard *storage.Dashboard
}

// PasswordResult is the outcome of a password-check attempt. A wrong
// password is a normal negative result, not an error: Correct is false and
// nothing else is revealed. Dashboard is set only when Correct.
type PasswordResult struct {
	Found     bool
	Correct   bool
	Dashboard *storage.Dashboard
}

// Store is the slice of storage the controller needs.
type Store interface {
	GetDashboardByID(ctx context.Context, id string) (*storage.Dashboard, error)
	IncrementDashboardViews(ctx context.Context, id string) error
}

// Controller resolves dashboard visibility for inbound view requests.
type Controller struct {
	store Store
}

// NewController creates a Controller.
func NewController(store Store) *Controller {
	return &Controller{store: store}
}

// Resolve determines the access state for viewer (empty string for an
// anonymous caller) against the dashboard with the given id, and increments
// the view counter for every content-bearing outcome. Views count content
// deliveries, not unique viewers, so repeated reads each count.
func (c *Controller) Resolve(ctx context.Context, dashboardID, viewer string) (*Resolution, error) {
	d, err := c.store.GetDashboardByID(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &Resolution{State: StateNotFound}, nil
		}
		return nil, fmt.Errorf("dashboard lookup failed: %w", err)
	}

	switch {
	case viewer != "" && viewer == d.Owner:
		if err := c.countView(ctx, d); err != nil {
			return nil, err
		}
		return &Resolution{State: StateOwner, Dashboard: d}, nil

	case !d.Shared:
		return &Resolution{State: StateNotShared}, nil

	case !d.HasPassword():
		if err := c.countView(ctx, d); err != nil {
			return nil, err
		}
		return &Resolution{State: StateSharedOpen, Dashboard: d}, nil

	default:
		return &Resolution{State: StatePasswordRequired}, nil
	}
}

// CheckPassword verifies a supplied password against the stored hash and,
// on a match, counts the content delivery. Every correct submission counts
// a view, including repeats from the same caller.
func (c *Controller) CheckPassword(ctx context.Context, dashboardID, password string) (*PasswordResult, error) {
	d, err := c.store.GetDashboardByID(ctx, dashboardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &PasswordResult{Found: false}, nil
		}
		return nil, fmt.Errorf("dashboard lookup failed: %w", err)
	}

	// A dashboard without a gate has nothing to match against; the attempt
	// is simply incorrect.
	if !d.HasPassword() || storage.VerifyPassword(password, *d.PasswordHash) != nil {
		return &PasswordResult{Found: true, Correct: false}, nil
	}

	if err := c.countView(ctx, d); err != nil {
		return nil, err
	}
	return &PasswordResult{Found: true, Correct: true, Dashboard: d}, nil
}

func (c *Controller) countView(ctx context.Context, d *storage.Dashboard) error {
	if err := c.store.IncrementDashboardViews(ctx, d.ID); err != nil {
		return fmt.Errorf("failed to count view: %w", err)
	}
	d.Views++
	return nil
}
