// Package auth implements account login and bearer-token sessions.
// Passwords are stored as bcrypt hashes; session tokens are opaque
// UUIDs persisted in the sessions table with a fixed TTL.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/askdsu/campus-assistant-go/internal/errors"
	"github.com/askdsu/campus-assistant-go/internal/logger"
	"github.com/askdsu/campus-assistant-go/internal/metrics"
	"github.com/askdsu/campus-assistant-go/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength caps login input; bcrypt ignores bytes past 72 anyway.
const maxPasswordLength = 72

// Service manages accounts and login sessions.
type Service struct {
	db         *storage.DB
	metrics    *metrics.Metrics
	logger     *logger.Logger
	sessionTTL time.Duration
}

// NewService creates an auth service. Metrics may be nil.
func NewService(db *storage.DB, m *metrics.Metrics, log *logger.Logger, sessionTTL time.Duration) *Service {
	return &Service{
		db:         db,
		metrics:    m,
		logger:     log,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*storage.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email", apperrors.ErrInvalidInput)
	}
	if len(password) < 8 || len(password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be 8-%d characters", apperrors.ErrInvalidInput, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &storage.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a new session token.
// Unknown emails and wrong passwords both report ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	log := s.logger.WithModule("auth")

	if len(password) > maxPasswordLength {
		s.recordAttempt("failure")
		return "", apperrors.ErrUnauthorized
	}

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordAttempt("failure")
			return "", apperrors.ErrUnauthorized
		}
		s.recordAttempt("error")
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debugf("Password mismatch for user %d", user.ID)
		s.recordAttempt("failure")
		return "", apperrors.ErrUnauthorized
	}

	now := time.Now()
	session := &storage.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.db.CreateSession(ctx, session); err != nil {
		s.recordAttempt("error")
		return "", fmt.Errorf("create session: %w", err)
	}

	log.Infof("User %d logged in", user.ID)
	s.recordAttempt("success")
	return session.Token, nil
}

// Logout invalidates a session token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.db.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user.
// Expired sessions are deleted on sight and report ErrSessionExpired.
func (s *Service) Authenticate(ctx context.Context, token string) (*storage.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	session, err := s.db.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.db.DeleteSession(ctx, token); err != nil {
			s.logger.WithModule("auth").WithError(err).Warnf("Failed to delete expired session")
		}
		return nil, apperrors.ErrSessionExpired
	}

	user, err := s.db.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("lookup session user: %w", err)
	}
	return user, nil
}

func (s *Service) recordAttempt(status string) {
	if s.metrics != nil {
		s.metrics.RecordAuthAttempt(status)
	}
}
