package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrFilmNotFound signals a missing film record.
	ErrFilmNotFound = errors.New("film not found")
	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrGenreNotFound signals an unknown genre id.
	ErrGenreNotFound = errors.New("genre not found")
	// ErrRatingNotFound signals an unknown MPA rating id.
	ErrRatingNotFound = errors.New("mpa rating not found")
	// ErrInvalidFilm indicates validation failure for film data.
	ErrInvalidFilm = errors.New("invalid film")
	// ErrInvalidUser indicates validation failure for user data.
	ErrInvalidUser = errors.New("invalid user")
	// ErrIntegrity indicates the database rejected a write due to a constraint.
	ErrIntegrity = errors.New("data integrity violation")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SQLSTATE classes translated into ErrIntegrity.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// wrapIntegrity converts constraint violations into ErrIntegrity so the
// boundary layer can surface them as validation-style failures. The
// constraint name is kept in the message because the check constraints
// mirror field rules (chk_release_date, chk_duration_positive).
func wrapIntegrity(verb string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrIntegrity, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", verb, err)
}
