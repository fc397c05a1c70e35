package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domerrors "github.com/askdsu/campus-assistant-go/internal/errors"
)

// CreateUser inserts a new login account.
// The caller provides an already-hashed password.
func (db *DB) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, display_name)
		VALUES (?, ?, ?)
	`
	result, err := db.conn.ExecContext(ctx, query,
		strings.ToLower(user.Email), user.PasswordHash, user.DisplayName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create user",
			"email", user.Email,
			"error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		user.ID = id
	}
	return nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
// Returns ErrNotFound when no such account exists.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, password_hash, display_name FROM users WHERE email = ?`

	var user User
	err := db.conn.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query user", "error", err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key.
// Returns ErrNotFound when no such account exists.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, email, password_hash, display_name FROM users WHERE id = ?`

	var user User
	err := db.conn.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query user", "user_id", id, "error", err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

// CreateSession persists a new session token.
func (db *DB) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := db.conn.ExecContext(ctx, query,
		session.Token, session.UserID, session.CreatedAt.Unix(), session.ExpiresAt.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session",
			"user_id", session.UserID,
			"error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token.
// Returns ErrNotFound for unknown tokens; expiry is the caller's concern.
func (db *DB) GetSession(ctx context.Context, token string) (*Session, error) {
	query := `SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?`

	var session Session
	var createdAt, expiresAt int64
	err := db.conn.QueryRowContext(ctx, query, token).Scan(
		&session.Token, &session.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domerrors.ErrNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query session", "error", err)
		return nil, fmt.Errorf("query session: %w", err)
	}
	session.CreatedAt = time.Unix(createdAt, 0)
	session.ExpiresAt = time.Unix(expiresAt, 0)
	return &session, nil
}

// DeleteSession removes a session token. Deleting an unknown token is a no-op.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		slog.ErrorContext(ctx, "failed to delete session", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpiredSessions deletes all sessions that expired before now.
// Returns the number of sessions removed.
func (db *DB) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to purge sessions", "error", err)
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}
	return purged, nil
}
