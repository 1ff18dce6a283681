// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and context, never *http.Request, and return
// domain errors from internal/apperror, never HTTP status codes. The handler
// layer translates both directions. Every service takes its repository as an
// interface, so tests substitute in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/auth"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/repository"
)

// AuthService handles registration and login against the credential store.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → read/write user records
//   - passwords *auth.PasswordService     → bcrypt hashing
//   - sessions  *auth.SessionService      → signed session tokens
//   - logger    *slog.Logger              → structured logging
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// Register creates a new user account.
//
// Rules, in order:
//  1. Both fields are trimmed; either empty → validation error
//  2. Username must not already exist (pre-check, not a transaction — two
//     concurrent registrations can both pass the check; the UNIQUE constraint
//     is the backstop)
//  3. The password is bcrypt-hashed and the user stored
//
// A successful registration does NOT log the user in — the handler redirects
// to the login form, matching the page flow.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return apperror.ValidationFailed("username", "Username and password are required.")
	}

	// Duplicate pre-check: "not found" is the good outcome here.
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return apperror.Conflict("Username already exists.")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered", slog.String("username", username))
	return nil
}

// Login verifies credentials and issues a session token.
//
// Unknown username and wrong password produce the SAME error message — the
// form must not reveal which half was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return "", apperror.ValidationFailed("username", "Username and password are required.")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.AuthFailed("Invalid username or password.")
		}
		return "", fmt.Errorf("service/auth: looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.AuthFailed("Invalid username or password.")
	}

	token, err := s.sessions.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing session for %q: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("username", username))
	return token, nil
}
