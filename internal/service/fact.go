package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/sakif/weather-dashboard/internal/model"
	"github.com/sakif/weather-dashboard/internal/repository"
)

// FactGenerator is the slice of the text-generation gateway the fact service
// needs. *factgen.Client satisfies it; tests use a canned fake.
type FactGenerator interface {
	Configured() bool
	Generate(ctx context.Context) (string, error)
}

// DefaultMaxFacts is the fact cap when MAX_FACTS is not configured.
const DefaultMaxFacts = 6

// DefaultFacts are seeded the first time the catalog is read while empty.
// Seeding bypasses the cap check — it only ever runs against an empty
// catalog, and four defaults sit under any sane cap anyway.
var DefaultFacts = []model.Fact{
	{Text: "Snowflakes are made of ice crystals."},
	{Text: "Winter storms form when cold air meets warm moist air."},
	{Text: "Polar bears are well adapted to winter temperatures."},
	{Text: "The Earth is closest to the sun in winter."},
}

/// FactService handles the fact catalog rules: the cap, manual entry,
// removal, generation, and default seeding.
type FactService struct {
	facts     repository.FactRepository
	generator FactGenerator
	maxFacts  int
	logger    *slog.Logger
}

// NewFactService creates a FactService. maxFacts <= 0 falls back to
// DefaultMaxFacts.
func NewFactService(
	facts repository.FactRepository,
	generator FactGenerator,
	maxFacts int,
	logger *slog.Logger,
) *FactService {
	if maxFacts <= 0 {
		maxFacts = DefaultMaxFacts
	}
	return &FactService{
		facts:     facts,
		generator: generator,
		maxFacts:  maxFacts,
		logger:    logger,
	}
}

// MaxFacts returns the configured cap.
func (s *FactService) MaxFacts() int {
	return s.maxFacts
}

// Add validates and inserts a manually entered fact.
//
// The cap is check-then-act: Count() then Create(), no transaction. Two
// concurrent adds at N-1 facts can both pass the check and push the catalog
// to N+1. That race is inherited behavior, reproduced deliberately — see the
// note in fact_test.go.
func (s *FactService) Add(ctx context.Context, text string) (*model.Fact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("fact", "Fact text is required.")
	}

	count, err := s.facts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/fact: counting: %w", err)
	}
	if count >= s.maxFacts {
		return nil, apperror.CapacityReached(fmt.Sprintf("Maximum of %d facts reached.", s.maxFacts))
	}

	fact := &model.Fact{Text: text}
	if err := s.facts.Create(ctx, fact); err != nil {
		return nil, fmt.Errorf("service/fact: creating: %w", err)
	}

	s.logger.Info("fact added", slog.String("id", fact.ID))
	return fact, nil
}

// Remove deletes a fact by id. The id must be a well-formed xid; unknown ids
// return the not-found error from the repository.
func (s *FactService) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("fact_id", "Fact ID is required.")
	}
	if _, err := xid.FromString(id); err != nil {
		return apperror.ValidationFailed("fact_id", "Fact ID is invalid.")
	}

	if err := s.facts.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("fact removed", slog.String("id", id))
	return nil
}

// GenerateAndSave asks the text-generation provider for one fact and
// persists it.
//
// Order of checks matches the endpoint's contract: missing credential first
// (config error even when the catalog is full), then the cap, then the
// provider call. Generated facts go through the same repository insert as
// manual ones — the cap applies equally.
func (s *FactService) GenerateAndSave(ctx context.Context) (*model.Fact, error) {
	if !s.generator.Configured() {
		return nil, apperror.ConfigMissing("OpenAI API key is missing.")
	}

	count, err := s.facts.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/fact: counting: %w", err)
	}
	if count >= s.maxFacts {
		return nil, apperror.CapacityReached(fmt.Sprintf("You cannot add more than %d facts.", s.maxFacts))
	}

	text, err := s.generator.Generate(ctx)
	if err != nil {
		// Already a typed apperror (config or upstream) — propagate as-is.
		return nil, err
	}

	fact := &model.Fact{Text: text}
	if err := s.facts.Create(ctx, fact); err != nil {
		return nil, fmt.Errorf("service/fact: saving generated fact: %w", err)
	}

	s.logger.Info("fact generated", slog.String("id", fact.ID))
	return fact, nil
}

// List returns the full catalog.
func (s *FactService) List(ctx context.Context) ([]model.Fact, error) {
	facts, err := s.facts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/fact: listing: %w", err)
	}
	return facts, nil
}

// EnsureDefaults seeds the catalog when it is empty. The cap check is
// deliberately absent here — seed-time inserts are exempt by contract.
func (s *FactService) EnsureDefaults(ctx context.Context) error {
	count, err := s.facts.Count(ctx)
	if err != nil {
		return fmt.Errorf("service/fact: counting: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, d := range DefaultFacts {
		fact := d
		if err := s.facts.Create(ctx, &fact); err != nil {
			return fmt.Errorf("service/fact: seeding: %w", err)
		}
	}

	s.logger.Info("seeded default facts", slog.Int("count", len(DefaultFacts)))
	return nil
}
