package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Rating is an MPA content classification. Reference data, read-only.
type Rating struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Genre is a descriptive film tag. Reference data, read-only.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListRatings returns all MPA ratings ordered by id.
func (s *Store) ListRatings(ctx context.Context) ([]Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM mpa_ratings
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select mpa ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan mpa rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mpa ratings: %w", err)
	}
	return ratings, nil
}

// RatingByID returns a single MPA rating.
func (s *Store) RatingByID(ctx context.Context, id int64) (Rating, error) {
	var r Rating
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM mpa_ratings
		WHERE id = $1
	`, id).Scan(&r.ID, &r.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, fmt.Errorf("select mpa rating: %w", err)
	}
	return r, nil
}

// RatingExists reports whether the MPA rating id is present.
func (s *Store) RatingExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM mpa_ratings WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check mpa rating: %w", err)
	}
	return exists, nil
}

// ListGenres returns all genres ordered by id.
func (s *Store) ListGenres(ctx context.Context) ([]Genre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM genres
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select genres: %w", err)
	}
	defer rows.Close()

	var genres []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

// GenreByID returns a single genre.
func (s *Store) GenreByID(ctx context.Context, id int64) (Genre, error) {
	var g Genre
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM genres
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Genre{}, ErrGenreNotFound
		}
		return Genre{}, fmt.Errorf("select genre: %w", err)
	}
	return g, nil
}

// CountGenres returns how many of the given genre ids exist. Duplicate ids
// are counted once.
func (s *Store) CountGenres(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM genres
		WHERE id = ANY($1)
	`, pq.Array(dedupeIDs(ids))).Scan(&count); err != nil {
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return count, nil
}
