package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"filmograph/internal/store"
)

const defaultPopularCount = 10

func (s *Server) handleCreateFilm(w http.ResponseWriter, r *http.Request) {
	var film store.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.films.Create(r.Context(), film)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateFilm(w http.ResponseWriter, r *http.Request) {
	var film store.Film
	if err := json.NewDecoder(r.Body).Decode(&film); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.films.Update(r.Context(), film)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := s.films.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if films == nil {
		films = []store.Film{}
	}
	writeJSON(w, http.StatusOK, films)
}

func (s *Server) handleGetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid film id"})
		return
	}

	film, err := s.films.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, film)
}

func (s *Server) handleDeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid film id"})
		return
	}

	if err := s.films.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := likeIDs(w, r)
	if !ok {
		return
	}
	if err := s.films.AddLike(r.Context(), filmID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request) {
	filmID, userID, ok := likeIDs(w, r)
	if !ok {
		return
	}
	if err := s.films.RemoveLike(r.Context(), filmID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handlePopularFilms(w http.ResponseWriter, r *http.Request) {
	count := defaultPopularCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid count parameter"})
			return
		}
		if parsed > 0 {
			count = parsed
		}
	}

	films, err := s.films.Popular(r.Context(), count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if films == nil {
		films = []store.Film{}
	}
	writeJSON(w, http.StatusOK, films)
}

func likeIDs(w http.ResponseWriter, r *http.Request) (filmID, userID int64, ok bool) {
	filmID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid film id"})
		return 0, 0, false
	}
	userID, err = pathID(r, "userId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return 0, 0, false
	}
	return filmID, userID, true
}
