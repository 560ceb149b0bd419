package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertSource creates a new source row with the passcode encrypted at rest.
// The ID and CreatedAt fields are filled in on success.
// Returns ErrDuplicate if the owner already has a source with that name.
func (s *SQLiteStorage) InsertSource(ctx context.Context, src *Source) error {
	if src.ID == "" {
		src.ID = uuid.New().String()
	}

	encrypted, err := EncryptPasscode(src.Passcode, s.encryptionKey)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sources (id, owner, name, type, url, login, passcode_encrypted, vhost)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Owner, src.Name, src.Type, src.URL, src.Login, encrypted, src.VHost)

	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert source: %w", err)
	}

	src.CreatedAt = time.Now()
	return nil
}

// ListSources returns all sources belonging to owner, passcodes decrypted.
// Returns empty slice if none exist.
func (s *SQLiteStorage) ListSources(ctx context.Context, owner string) ([]*Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner, name, type, url, login, passcode_encrypted, vhost, created_at
		 FROM sources WHERE owner = ? ORDER BY created_at DESC`,
		owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var sources []*Source
	for rows.Next() {
		src, err := s.scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	if sources == nil {
		sources = make([]*Source, 0)
	}
	return sources, nil
}

// GetSourceByName retrieves a source by name, scoped to owner.
// Returns ErrNotFound if owner has no source with that name.
func (s *SQLiteStorage) GetSourceByName(ctx context.Context, owner, name string) (*Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner, name, type, url, login, passcode_encrypted, vhost, created_at
		 FROM sources WHERE owner = ? AND name = ?`,
		owner, name)

	src, err := s.scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return src, nil
}

// UpdateSource replaces a source's metadata, scoped to owner via src.Owner.
// Returns ErrNotFound if no source with src.ID belongs to the owner, and
// ErrDuplicate if renaming collides with another source of the same owner.
func (s *SQLiteStorage) UpdateSource(ctx context.Context, src *Source) error {
	encrypted, err := EncryptPasscode(src.Passcode, s.encryptionKey)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE sources SET name = ?, type = ?, url = ?, login = ?, passcode_encrypted = ?, vhost = ?
		 WHERE id = ? AND owner = ?`,
		src.Name, src.Type, src.URL, src.Login, encrypted, src.VHost, src.ID, src.Owner)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update source: %w", err)
	}
	return requireRowAffected(result)
}

// DeleteSource deletes a source, scoped to owner.
// Returns ErrNotFound if no source with that id belongs to owner.
func (s *SQLiteStorage) DeleteSource(ctx context.Context, id, owner string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sources WHERE id = ? AND owner = ?",
		id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return requireRowAffected(result)
}

func (s *SQLiteStorage) scanSource(row rowScanner) (*Source, error) {
	var src Source
	var encrypted []byte
	err := row.Scan(&src.ID, &src.Owner, &src.Name, &src.Type, &src.URL, &src.Login, &encrypted, &src.VHost, &src.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source row: %w", err)
	}

	if len(encrypted) > 0 {
		passcode, err := DecryptPasscode(encrypted, s.encryptionKey)
		if err != nil {
			return nil, err
		}
		src.Passcode = passcode
	}
	return &src, nil
}
