package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/repository"
)

// LocationDB implements repository.LocationRepository over the shared pool.
type LocationDB struct {
	conn *sql.DB
}

var _ repository.LocationRepository = (*LocationDB)(nil)

// Create inserts a new location with a generated ID.
func (l *LocationDB) Create(ctx context.Context, loc *model.Location) error {
	loc.ID = xid.New().String()
	loc.CreatedAt = time.Now()

	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO locations (id, city, country, created_at)
		 VALUES (?, ?, ?, ?)`,
		loc.ID,
		loc.City,
		loc.Country,
		loc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating location %s,%s: %w", loc.City, loc.Country, err)
	}

	return nil
}

// Exists reports whether a location with the given (city, country) pair is
// already in the catalog. Used as the duplicate pre-check before insert.
func (l *LocationDB) Exists(ctx context.Context, city, country string) (bool, error) {
	var count int
	err := l.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locations WHERE city = ? AND country = ?`,
		city, country,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking location %s,%s: %w", city, country, err)
	}
	return count > 0, nil
}

// List returns the full location catalog, oldest first so the seeded
// defaults keep their order in the dropdown.
func (l *LocationDB) List(ctx context.Context) ([]model.Location, error) {
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, city, country, created_at
		 FROM locations
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing locations: %w", err)
	}
	// sql.Rows holds a pool connection — always close it.
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.City, &loc.Country, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning location row: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating locations: %w", err)
	}

	return locations, nil
}

// Count returns the number of locations. Zero means the catalog has never
// been seeded.
func (l *LocationDB) Count(ctx context.Context) (int, error) {
	var count int
	err := l.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting locations: %w", err)
	}
	return count, nil
}
