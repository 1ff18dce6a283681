package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/repository"
)

// UserDB implements repository.UserRepository over the shared pool.
type UserDB struct {
	conn *sql.DB
}

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately, rather than at
// the point the value is first passed around.
var _ repository.UserRepository = (*UserDB)(nil)

// Create inserts a new user with a generated ID.
//
// POINTER RECEIVER ON THE MODEL:
// We take *model.User so the caller's struct ends up with the generated ID
// and timestamp after the call.
//
// The username UNIQUE constraint will reject a duplicate that raced past the
// service-layer pre-check; that surfaces here as a wrapped driver error, not
// as apperror.ErrConflict — the friendly conflict message comes from the
// pre-check, by contract.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := u.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by username.
// Returns apperror.ErrNotFound if no user exists — the registration flow
// relies on that to detect an available username.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User

	err := u.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel — "no matching row" is not a database
		// failure, it's a domain answer.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound(fmt.Sprintf("user %q not found", username))
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &user, nil
}
