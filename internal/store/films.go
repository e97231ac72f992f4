package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Film models a catalog entry together with its resolved associations.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate Date    `json:"releaseDate"`
	Duration    int     `json:"duration"`
	Mpa         Rating  `json:"mpa"`
	Genres      []Genre `json:"genres"`
	Likes       []int64 `json:"likes"`
}

// ListFilms returns all films ordered by id, fully hydrated.
func (s *Store) ListFilms(ctx context.Context) ([]Film, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.name
		FROM films f
		JOIN mpa_ratings m ON m.id = f.mpa_id
		ORDER BY f.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select films: %w", err)
	}
	defer rows.Close()

	films, err := scanFilmRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate films: %w", err)
	}

	for i := range films {
		if err := s.hydrateFilm(ctx, &films[i]); err != nil {
			return nil, err
		}
	}
	return films, nil
}

// CreateFilm inserts the film row plus its genre and like associations and
// returns the stored record with its generated id.
func (s *Store) CreateFilm(ctx context.Context, film Film) (Film, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Film{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO films (name, description, release_date, duration, mpa_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID).Scan(&id)
	if err != nil {
		return Film{}, wrapIntegrity("insert film", err)
	}

	if err := insertFilmGenres(ctx, tx, id, film.Genres); err != nil {
		return Film{}, err
	}
	if err := insertFilmLikes(ctx, tx, id, film.Likes); err != nil {
		return Film{}, err
	}

	if err := tx.Commit(); err != nil {
		return Film{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.FilmByID(ctx, id)
}

// UpdateFilm overwrites the scalar fields and replaces the genre and like
// sets wholesale. The replace is delete-then-reinsert: the supplied sets win
// and are not merged with concurrent like mutations.
func (s *Store) UpdateFilm(ctx context.Context, film Film) (Film, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Film{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE films
		SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
		WHERE id = $6
	`, film.Name, film.Description, film.ReleaseDate, film.Duration, film.Mpa.ID, film.ID)
	if err != nil {
		return Film{}, wrapIntegrity("update film", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Film{}, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return Film{}, ErrFilmNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM film_genres
		WHERE film_id = $1
	`, film.ID); err != nil {
		return Film{}, fmt.Errorf("delete film genres: %w", err)
	}
	if err := insertFilmGenres(ctx, tx, film.ID, film.Genres); err != nil {
		return Film{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE film_id = $1
	`, film.ID); err != nil {
		return Film{}, fmt.Errorf("delete likes: %w", err)
	}
	if err := insertFilmLikes(ctx, tx, film.ID, film.Likes); err != nil {
		return Film{}, err
	}

	if err := tx.Commit(); err != nil {
		return Film{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return s.FilmByID(ctx, film.ID)
}

// FilmByID returns a single film with resolved mpa, genres and likes.
func (s *Store) FilmByID(ctx context.Context, id int64) (Film, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.name
		FROM films f
		JOIN mpa_ratings m ON m.id = f.mpa_id
		WHERE f.id = $1
	`, id)

	film, err := scanFilmRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Film{}, ErrFilmNotFound
		}
		return Film{}, err
	}

	if err := s.hydrateFilm(ctx, &film); err != nil {
		return Film{}, err
	}
	return film, nil
}

// DeleteFilm removes the film row. Genre and like associations cascade at
// the schema level.
func (s *Store) DeleteFilm(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM films
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFilmNotFound
	}
	return nil
}

// AddLike records that the user likes the film. Adding an existing like is
// a no-op.
func (s *Store) AddLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO likes (film_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (film_id, user_id) DO NOTHING
	`, filmID, userID); err != nil {
		return wrapIntegrity("insert like", err)
	}
	return nil
}

// RemoveLike deletes the like edge. Removing an absent like is a no-op.
func (s *Store) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE film_id = $1 AND user_id = $2
	`, filmID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// PopularFilms returns up to count films ranked by like count descending,
// ties broken by id ascending. The ranking always reflects the current like
// set; fewer rows than requested is not an error.
func (s *Store) PopularFilms(ctx context.Context, count int) ([]Film, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id, m.name
		FROM films f
		JOIN mpa_ratings m ON m.id = f.mpa_id
		LEFT JOIN (
			SELECT film_id, COUNT(user_id) AS like_count
			FROM likes
			GROUP BY film_id
		) lc ON lc.film_id = f.id
		ORDER BY COALESCE(lc.like_count, 0) DESC, f.id ASC
		LIMIT $1
	`, count)
	if err != nil {
		return nil, fmt.Errorf("select popular films: %w", err)
	}
	defer rows.Close()

	films, err := scanFilmRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular films: %w", err)
	}

	for i := range films {
		if err := s.hydrateFilm(ctx, &films[i]); err != nil {
			return nil, err
		}
	}
	return films, nil
}

func insertFilmGenres(ctx context.Context, tx *sql.Tx, filmID int64, genres []Genre) error {
	for _, g := range dedupeGenres(genres) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO film_genres (film_id, genre_id)
			VALUES ($1, $2)
		`, filmID, g.ID); err != nil {
			return wrapIntegrity("insert film genre", err)
		}
	}
	return nil
}

func insertFilmLikes(ctx context.Context, tx *sql.Tx, filmID int64, userIDs []int64) error {
	for _, userID := range dedupeIDs(userIDs) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO likes (film_id, user_id)
			VALUES ($1, $2)
		`, filmID, userID); err != nil {
			return wrapIntegrity("insert like", err)
		}
	}
	return nil
}

// dedupeGenres collapses duplicate genre ids, keeping first occurrence order.
func dedupeGenres(genres []Genre) []Genre {
	seen := make(map[int64]bool, len(genres))
	var out []Genre
	for _, g := range genres {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return out
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// hydrateFilm resolves the genre list and like set for a scanned film.
func (s *Store) hydrateFilm(ctx context.Context, film *Film) error {
	genres, err := s.genresForFilm(ctx, film.ID)
	if err != nil {
		return err
	}
	film.Genres = genres

	likes, err := s.likesForFilm(ctx, film.ID)
	if err != nil {
		return err
	}
	film.Likes = likes
	return nil
}

func (s *Store) genresForFilm(ctx context.Context, filmID int64) ([]Genre, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name
		FROM genres g
		JOIN film_genres fg ON fg.genre_id = g.id
		WHERE fg.film_id = $1
		ORDER BY g.id ASC
	`, filmID)
	if err != nil {
		return nil, fmt.Errorf("select film genres: %w", err)
	}
	defer rows.Close()

	var genres []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan film genre: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate film genres: %w", err)
	}
	return genres, nil
}

func (s *Store) likesForFilm(ctx context.Context, filmID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id
		FROM likes
		WHERE film_id = $1
		ORDER BY user_id ASC
	`, filmID)
	if err != nil {
		return nil, fmt.Errorf("select likes: %w", err)
	}
	defer rows.Close()

	var likes []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate likes: %w", err)
	}
	return likes, nil
}

type filmScanner interface {
	Scan(dest ...any) error
}

func scanFilmRow(scanner filmScanner) (Film, error) {
	var f Film
	if err := scanner.Scan(&f.ID, &f.Name, &f.Description, &f.ReleaseDate, &f.Duration, &f.Mpa.ID, &f.Mpa.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Film{}, err
		}
		return Film{}, fmt.Errorf("scan film: %w", err)
	}
	return f, nil
}

func scanFilmRows(rows *sql.Rows) ([]Film, error) {
	var films []Film
	for rows.Next() {
		f, err := scanFilmRow(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, nil
}
