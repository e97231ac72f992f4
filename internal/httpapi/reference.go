package httpapi

import (
	"net/http"

	"filmograph/internal/store"
)

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.reference.Genres(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if genres == nil {
		genres = []store.Genre{}
	}
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid genre id"})
		return
	}

	genre, err := s.reference.Genre(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.reference.Ratings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []store.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid mpa id"})
		return
	}

	rating, err := s.reference.Rating(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}
