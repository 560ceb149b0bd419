package storage

import (
	"encoding/json"
	"time"
)

// User is a registered account. PasswordHash is the bcrypt digest of the
// account password and is never serialized in API responses.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	RegisteredAt time.Time
}

// Dashboard is a widget dashboard owned by one user.
//
// Layout, Items and NextID form the widget-layout payload. The payload is
// opaque to this service and replaced wholesale on save.
//
// PasswordHash is nil when the dashboard is shared without a password gate.
type Dashboard struct {
	ID           string
	Owner        string
	Name         string
	Layout       json.RawMessage
	Items        json.RawMessage
	NextID       int64
	Shared       bool
	PasswordHash *string
	Views        int64
	CreatedAt    time.Time
}

// HasPassword reports whether a password gate is set.
func (d *Dashboard) HasPassword() bool {
	return d.PasswordHash != nil
}

// Source holds connection metadata for one data source. Passcode is stored
// AES-GCM encrypted at rest and returned decrypted.
type Source struct {
	ID        string
	Owner     string
	Name      string
	Type      string
	URL       string
	Login     string
	Passcode  string
	VHost     string
	CreatedAt time.Time
}
