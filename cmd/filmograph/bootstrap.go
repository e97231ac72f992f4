package main

import (
	"context"
	"database/sql"
	"fmt"
)

// seedReferenceData loads the fixed MPA rating and genre tables. Reference
// rows keep stable ids, so inserts are conflict-free re-runs.
func seedReferenceData(ctx context.Context, db *sql.DB) error {
	ratings := []struct {
		ID   int64
		Name string
	}{
		{1, "G"},
		{2, "PG"},
		{3, "PG-13"},
		{4, "R"},
		{5, "NC-17"},
	}
	for _, r := range ratings {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO mpa_ratings (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, r.ID, r.Name); err != nil {
			return fmt.Errorf("seed mpa rating %q: %w", r.Name, err)
		}
	}

	genres := []struct {
		ID   int64
		Name string
	}{
		{1, "Comedy"},
		{2, "Drama"},
		{3, "Animation"},
		{4, "Thriller"},
		{5, "Documentary"},
		{6, "Action"},
	}
	for _, g := range genres {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO genres (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, g.ID, g.Name); err != nil {
			return fmt.Errorf("seed genre %q: %w", g.Name, err)
		}
	}

	return nil
}
