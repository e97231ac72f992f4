package reference

import (
	"context"

	"filmograph/internal/store"
)

// Store captures lookups over the fixed genre and MPA rating tables.
type Store interface {
	ListGenres(ctx context.Context) ([]store.Genre, error)
	GenreByID(ctx context.Context, id int64) (store.Genre, error)
	ListRatings(ctx context.Context) ([]store.Rating, error)
	RatingByID(ctx context.Context, id int64) (store.Rating, error)
}

// Service exposes the read-only reference data.
type Service interface {
	Genres(ctx context.Context) ([]store.Genre, error)
	Genre(ctx context.Context, id int64) (store.Genre, error)
	Ratings(ctx context.Context) ([]store.Rating, error)
	Rating(ctx context.Context, id int64) (store.Rating, error)
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Genres(ctx context.Context) ([]store.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListGenres(ctx)
}

func (s *service) Genre(ctx context.Context, id int64) (store.Genre, error) {
	if err := ctx.Err(); err != nil {
		return store.Genre{}, err
	}
	return s.store.GenreByID(ctx, id)
}

func (s *service) Ratings(ctx context.Context) ([]store.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListRatings(ctx)
}

func (s *service) Rating(ctx context.Context, id int64) (store.Rating, error) {
	if err := ctx.Err(); err != nil {
		return store.Rating{}, err
	}
	return s.store.RatingByID(ctx, id)
}
