package films

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"filmograph/internal/store"
)

// MinReleaseDate is the earliest accepted release date, the first public
// film screening.
var MinReleaseDate = store.NewDate(1895, time.December, 28)

const (
	// DefaultRatingID is injected when a film is submitted without an MPA
	// rating.
	DefaultRatingID = 1

	maxDescriptionLen = 200
)

// Store captures the persistence operations required by film workflows.
type Store interface {
	ListFilms(ctx context.Context) ([]store.Film, error)
	CreateFilm(ctx context.Context, film store.Film) (store.Film, error)
	UpdateFilm(ctx context.Context, film store.Film) (store.Film, error)
	FilmByID(ctx context.Context, id int64) (store.Film, error)
	DeleteFilm(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	PopularFilms(ctx context.Context, count int) ([]store.Film, error)
	RatingExists(ctx context.Context, id int64) (bool, error)
	CountGenres(ctx context.Context, ids []int64) (int, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
}

// Service coordinates film catalog operations.
type Service interface {
	List(ctx context.Context) ([]store.Film, error)
	Create(ctx context.Context, film store.Film) (store.Film, error)
	Update(ctx context.Context, film store.Film) (store.Film, error)
	Get(ctx context.Context, id int64) (store.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	Popular(ctx context.Context, count int) ([]store.Film, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) List(ctx context.Context) ([]store.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFilms(ctx)
}

func (s *service) Create(ctx context.Context, film store.Film) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	film, err := s.prepare(ctx, film)
	if err != nil {
		return store.Film{}, err
	}
	return s.store.CreateFilm(ctx, film)
}

func (s *service) Update(ctx context.Context, film store.Film) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	film, err := s.prepare(ctx, film)
	if err != nil {
		return store.Film{}, err
	}
	return s.store.UpdateFilm(ctx, film)
}

func (s *service) Get(ctx context.Context, id int64) (store.Film, error) {
	if err := ctx.Err(); err != nil {
		return store.Film{}, err
	}
	return s.store.FilmByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteFilm(ctx, id)
}

// AddLike verifies both the user and the film exist before mutating the
// like edge; the edge insert itself is idempotent.
func (s *service) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkLikeTargets(ctx, filmID, userID); err != nil {
		return err
	}
	return s.store.AddLike(ctx, filmID, userID)
}

func (s *service) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkLikeTargets(ctx, filmID, userID); err != nil {
		return err
	}
	return s.store.RemoveLike(ctx, filmID, userID)
}

func (s *service) Popular(ctx context.Context, count int) ([]store.Film, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.PopularFilms(ctx, count)
}

func (s *service) checkLikeTargets(ctx context.Context, filmID, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.store.UserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.store.FilmByID(ctx, filmID); err != nil {
		return err
	}
	return nil
}

// prepare runs field validation, verifies the referenced mpa and genre ids
// exist and injects the default rating when none is supplied.
func (s *service) prepare(ctx context.Context, film store.Film) (store.Film, error) {
	if err := validateFilm(film); err != nil {
		return store.Film{}, err
	}

	if film.Mpa.ID == 0 {
		film.Mpa = store.Rating{ID: DefaultRatingID}
	} else {
		ok, err := s.store.RatingExists(ctx, film.Mpa.ID)
		if err != nil {
			return store.Film{}, err
		}
		if !ok {
			return store.Film{}, fmt.Errorf("%w: id %d", store.ErrRatingNotFound, film.Mpa.ID)
		}
	}

	if len(film.Genres) > 0 {
		ids := make([]int64, 0, len(film.Genres))
		seen := make(map[int64]bool, len(film.Genres))
		for _, g := range film.Genres {
			if !seen[g.ID] {
				seen[g.ID] = true
				ids = append(ids, g.ID)
			}
		}
		count, err := s.store.CountGenres(ctx, ids)
		if err != nil {
			return store.Film{}, err
		}
		if count != len(ids) {
			return store.Film{}, fmt.Errorf("%w: one or more genre ids unknown", store.ErrGenreNotFound)
		}
	}

	return film, nil
}

func validateFilm(film store.Film) error {
	switch {
	case strings.TrimSpace(film.Name) == "":
		return fmt.Errorf("%w: name must not be blank", store.ErrInvalidFilm)
	case utf8.RuneCountInString(film.Description) > maxDescriptionLen:
		return fmt.Errorf("%w: description exceeds %d characters", store.ErrInvalidFilm, maxDescriptionLen)
	case film.ReleaseDate.IsZero():
		return fmt.Errorf("%w: release date is required", store.ErrInvalidFilm)
	case film.ReleaseDate.Before(MinReleaseDate):
		return fmt.Errorf("%w: release date must not be before %s", store.ErrInvalidFilm, MinReleaseDate.Format("2006-01-02"))
	case film.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", store.ErrInvalidFilm)
	}
	return nil
}
