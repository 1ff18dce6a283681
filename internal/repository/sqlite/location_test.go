package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/weather-dashboard/internal/model"
)

func createTestLocation(t *testing.T, l *LocationDB, city, country string) *model.Location {
	t.Helper()
	loc := &model.Location{City: city, Country: country}
	if err := l.Create(context.Background(), loc); err != nil {
		t.Fatalf("failed to create test location: %v", err)
	}
	return loc
}

func TestLocationCreate(t *testing.T) {
	l := newTestDB(t).Locations()

	loc := &model.Location{City: "Tel Aviv", Country: "IL"}
	if err := l.Create(context.Background(), loc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if loc.ID == "" {
		t.Error("Create() did not set loc.ID")
	}
	if loc.CreatedAt.IsZero() {
		t.Error("Create() did not set loc.CreatedAt")
	}
}

func TestLocationExists(t *testing.T) {
	l := newTestDB(t).Locations()
	createTestLocation(t, l, "London", "GB")

	exists, err := l.Exists(context.Background(), "London", "GB")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for a created location, want true")
	}

	exists, err = l.Exists(context.Background(), "London", "CA")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for a different country, want false")
	}
}

func TestLocationCreate_DuplicatePairBackstop(t *testing.T) {
	l := newTestDB(t).Locations()

	// The UNIQUE(city, country) constraint only backstops the service-layer
	// pre-check — same city in a different country is fine.
	createTestLocation(t, l, "Paris", "FR")
	createTestLocation(t, l, "Paris", "US")

	duplicate := &model.Location{City: "Paris", Country: "FR"}
	if err := l.Create(context.Background(), duplicate); err == nil {
		t.Fatal("Create() should have returned an error for duplicate (city, country)")
	}
}

func TestLocationListAndCount(t *testing.T) {
	l := newTestDB(t).Locations()

	count, err := l.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() on empty table = %d, want 0", count)
	}

	first := createTestLocation(t, l, "Tokyo", "JP")
	second := createTestLocation(t, l, "Sydney", "AU")

	locations, err := l.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("List() returned %d locations, want 2", len(locations))
	}
	if locations[0].ID != first.ID || locations[1].ID != second.ID {
		t.Error("List() is not in insertion order")
	}

	count, _ = l.Count(context.Background())
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
