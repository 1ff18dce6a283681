// Package repository declares the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/weather-dashboard/internal/model"
)

// UserRepository is the credential store.
//
// There is deliberately no Update or Delete — user records are immutable
// once created. GetByUsername returns apperror.ErrNotFound when no user
// exists, which doubles as the registration pre-check.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// LocationRepository is the location catalog. Exists is the duplicate
// pre-check on the (city, country) pair; the catalog is small and always
// read in full.
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	Exists(ctx context.Context, city, country string) (bool, error)
	List(ctx context.Context) ([]model.Location, error)
	Count(ctx context.Context) (int, error)
}

// FactRepository is the fact catalog. Count backs the cap pre-check; Delete
// returns apperror.ErrNotFound when the id matches no row.
type FactRepository interface {
	Create(ctx context.Context, fact *model.Fact) error
	List(ctx context.Context) ([]model.Fact, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
