package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/repository"
	"github.com/sakif/weather-dashboard/internal/weather"
)

// WeatherProvider is the slice of the weather gateway the location service
// needs: one lookup, nil meaning "no data". *weather.Client satisfies it;
// tests use a canned fake.
type WeatherProvider interface {
	Current(ctx context.Context, city, country string) *weather.Info
}

// DefaultLocations are seeded the first time the catalog is read while
// empty. Seeding is idempotent: it only fires on an empty catalog, so these
// six rows are written exactly once per database.
var DefaultLocations = []model.Location{
	{City: "Tel Aviv", Country: "IL"},
	{City: "New York", Country: "US"},
	{City: "London", Country: "GB"},
	{City: "Tokyo", Country: "JP"},
	{City: "Sydney", Country: "AU"},
	{City: "Paris", Country: "FR"},
}

// LocationService handles the location catalog rules.
type LocationService struct {
	locations repository.LocationRepository
	weather   WeatherProvider
	logger    *slog.Logger
}

// NewLocationService creates a LocationService.
func NewLocationService(
	locations repository.LocationRepository,
	provider WeatherProvider,
	logger *slog.Logger,
) *LocationService {
	return &LocationService{
		locations: locations,
		weather:   provider,
		logger:    logger,
	}
}

// Add validates and inserts a new location.
//
// Rules, in order:
//  1. Both fields trimmed; either empty → validation error
//  2. The pair must resolve to actual weather data — the gateway returning
//     nil means the provider doesn't know the pair, so we reject it
//  3. Duplicate (city, country) pre-check (check-then-act; UNIQUE backstop)
//
// The weather call happens BEFORE the duplicate check, matching the page's
// behavior: an invalid pair is reported as invalid even if it were somehow
// already present.
func (s *LocationService) Add(ctx context.Context, city, country string) (*model.Location, error) {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	if city == "" || country == "" {
		return nil, apperror.ValidationFailed("city", "City and country are required.")
	}

	if info := s.weather.Current(ctx, city, country); info == nil {
		return nil, apperror.ValidationFailed("city", "Invalid city or country.")
	}

	exists, err := s.locations.Exists(ctx, city, country)
	if err != nil {
		return nil, fmt.Errorf("service/location: checking %s,%s: %w", city, country, err)
	}
	if exists {
		return nil, apperror.Conflict("Location already exists.")
	}

	loc := &model.Location{City: city, Country: country}
	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("service/location: creating %s,%s: %w", city, country, err)
	}

	s.logger.Info("location added",
		slog.String("city", city),
		slog.String("country", country),
	)
	return loc, nil
}

// List returns the full catalog.
func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/location: listing: %w", err)
	}
	return locations, nil
}

// EnsureDefaults seeds the catalog when it is empty. Idempotent — a non-empty
// catalog is left untouched, so user-added locations never trigger reseeding.
func (s *LocationService) EnsureDefaults(ctx context.Context) error {
	count, err := s.locations.Count(ctx)
	if err != nil {
		return fmt.Errorf("service/location: counting: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, d := range DefaultLocations {
		loc := d
		if err := s.locations.Create(ctx, &loc); err != nil {
			return fmt.Errorf("service/location: seeding %s,%s: %w", d.City, d.Country, err)
		}
	}

	s.logger.Info("seeded default locations", slog.Int("count", len(DefaultLocations)))
	return nil
}
