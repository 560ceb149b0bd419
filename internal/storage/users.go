package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateUser registers a new account with a bcrypt password hash.
// Returns ErrDuplicate if the email or username is already taken.
func (s *SQLiteStorage) CreateUser(ctx context.Context, email, username, password string) (*User, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password_hash) VALUES (?, ?, ?, ?)",
		id, email, username, passwordHash)

	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GetUserByID(ctx, id)
}

// GetUserByUsername retrieves a user by username, including the password
// hash, for credential verification.
// Returns ErrNotFound if the username doesn't exist.
func (s *SQLiteStorage) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUser(ctx, "username = ?", username)
}

// GetUserByID retrieves a user by id.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *SQLiteStorage) getUser(ctx context.Context, where string, arg any) (*User, error) {
	var u User

	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, username, password_hash, registered_at FROM users WHERE "+where,
		arg).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.RegisteredAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}
