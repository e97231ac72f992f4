package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"filmograph/internal/store"
)

// FilmService captures the film-facing operations needed by the HTTP handlers.
type FilmService interface {
	List(ctx context.Context) ([]store.Film, error)
	Create(ctx context.Context, film store.Film) (store.Film, error)
	Update(ctx context.Context, film store.Film) (store.Film, error)
	Get(ctx context.Context, id int64) (store.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	Popular(ctx context.Context, count int) ([]store.Film, error)
}

// UserService captures user and friendship workflows.
type UserService interface {
	List(ctx context.Context) ([]store.User, error)
	Create(ctx context.Context, user store.User) (store.User, error)
	Update(ctx context.Context, user store.User) (store.User, error)
	Get(ctx context.Context, id int64) (store.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, friendID int64) error
	RemoveFriend(ctx context.Context, userID, friendID int64) error
	Friends(ctx context.Context, userID int64) ([]store.User, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]store.User, error)
}

// ReferenceService exposes the fixed genre and MPA rating tables.
type ReferenceService interface {
	Genres(ctx context.Context) ([]store.Genre, error)
	Genre(ctx context.Context, id int64) (store.Genre, error)
	Ratings(ctx context.Context) ([]store.Rating, error)
	Rating(ctx context.Context, id int64) (store.Rating, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	films     FilmService
	users     UserService
	reference ReferenceService
}

// New configures a Server with the given service implementations.
func New(films FilmService, users UserService, reference ReferenceService) *Server {
	return &Server{
		films:     films,
		users:     users,
		reference: reference,
	}
}

// Routes exposes the HTTP handlers for the catalog and social graph.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Film routes
	mux.HandleFunc("POST /films", s.handleCreateFilm)
	mux.HandleFunc("PUT /films", s.handleUpdateFilm)
	mux.HandleFunc("GET /films", s.handleListFilms)
	mux.HandleFunc("GET /films/popular", s.handlePopularFilms)
	mux.HandleFunc("GET /films/{id}", s.handleGetFilm)
	mux.HandleFunc("DELETE /films/{id}", s.handleDeleteFilm)
	mux.HandleFunc("PUT /films/{id}/like/{userId}", s.handleAddLike)
	mux.HandleFunc("DELETE /films/{id}/like/{userId}", s.handleRemoveLike)

	// User routes
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("PUT /users", s.handleUpdateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)
	mux.HandleFunc("PUT /users/{id}/friends/{friendId}", s.handleAddFriend)
	mux.HandleFunc("DELETE /users/{id}/friends/{friendId}", s.handleRemoveFriend)
	mux.HandleFunc("GET /users/{id}/friends", s.handleListFriends)
	mux.HandleFunc("GET /users/{id}/friends/common/{otherId}", s.handleCommonFriends)

	// Reference data routes
	mux.HandleFunc("GET /genres", s.handleListGenres)
	mux.HandleFunc("GET /genres/{id}", s.handleGetGenre)
	mux.HandleFunc("GET /mpa", s.handleListRatings)
	mux.HandleFunc("GET /mpa/{id}", s.handleGetRating)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain error kinds onto HTTP status codes. Unknown
// failures are logged and surfaced as a generic 500 without internal detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidFilm),
		errors.Is(err, store.ErrInvalidUser),
		errors.Is(err, store.ErrIntegrity):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrFilmNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrGenreNotFound),
		errors.Is(err, store.ErrRatingNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
