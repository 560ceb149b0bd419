// Package storage handles all database operations for the dashboard API.
package storage

import (
	"database/sql"
	"fmt"
)

// InitSchema creates all required tables and indexes.
// This is idempotent - safe to call multiple times.
//
// Name uniqueness is scoped per owner and enforced here, at the store level,
// so a constraint violation is the single conflict signal for concurrent
// writers - there is no preliminary existence query to race against.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ddlStatements := []string{
		// users table: registered accounts
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			registered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,

		// dashboards table: widget dashboards, one owner each
		`CREATE TABLE IF NOT EXISTS dashboards (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			layout TEXT NOT NULL DEFAULT '[]',
			items TEXT NOT NULL DEFAULT '{}',
			next_id INTEGER NOT NULL DEFAULT 1,
			shared INTEGER NOT NULL DEFAULT 0,
			password_hash TEXT,
			views INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (owner, name)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_dashboards_owner ON dashboards(owner)`,

		// sources table: data source connection metadata, one owner each
		`CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			login TEXT NOT NULL DEFAULT '',
			passcode_encrypted BLOB NOT NULL DEFAULT '',
			vhost TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (owner, name)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sources_owner ON sources(owner)`,
	}

	for _, stmt := range ddlStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}

	return nil
}
