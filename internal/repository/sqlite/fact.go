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

// FactDB implements repository.FactRepository over the shared pool.
type FactDB struct {
	conn *sql.DB
}

var _ repository.FactRepository = (*FactDB)(nil)

// Create inserts a new fact with a generated ID.
//
// ID GENERATION WITH xid:
// xid IDs are 20 URL-safe characters, sortable by creation time, e.g.
// "cv37rs3pp9olc6atsptg". The frontend posts them back as fact_id on remove.
//
// No cap check happens here — the cap is a business rule and lives in the
// service layer. Seeding calls this directly, which is what exempts it.
func (f *FactDB) Create(ctx context.Context, fact *model.Fact) error {
	fact.ID = xid.New().String()
	fact.CreatedAt = time.Now()

	_, err := f.conn.ExecContext(ctx,
		`INSERT INTO facts (id, text, created_at)
		 VALUES (?, ?, ?)`,
		fact.ID,
		fact.Text,
		fact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating fact: %w", err)
	}

	return nil
}

// List returns the full fact catalog, oldest first.
func (f *FactDB) List(ctx context.Context) ([]model.Fact, error) {
	rows, err := f.conn.QueryContext(ctx,
		`SELECT id, text, created_at
		 FROM facts
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing facts: %w", err)
	}
	defer rows.Close()

	var facts []model.Fact
	for rows.Next() {
		var fact model.Fact
		if err := rows.Scan(&fact.ID, &fact.Text, &fact.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning fact row: %w", err)
		}
		facts = append(facts, fact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating facts: %w", err)
	}

	return facts, nil
}

// Count returns the number of facts — the input to the cap pre-check.
func (f *FactDB) Count(ctx context.Context) (int, error) {
	var count int
	err := f.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM facts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting facts: %w", err)
	}
	return count, nil
}

// Delete removes a fact by its ID.
//
// RowsAffected() tells us whether the WHERE clause matched anything —
// zero rows affected means the fact doesn't exist, which we translate to
// the domain's NotFound error so the handler returns 404.
func (f *FactDB) Delete(ctx context.Context, id string) error {
	result, err := f.conn.ExecContext(ctx,
		`DELETE FROM facts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting fact %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("Fact not found.")
	}

	return nil
}
