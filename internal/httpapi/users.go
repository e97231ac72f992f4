package httpapi

import (
	"encoding/json"
	"net/http"

	"filmograph/internal/store"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user store.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	created, err := s.users.Create(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var user store.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	updated, err := s.users.Update(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []store.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := friendIDs(w, r)
	if !ok {
		return
	}
	if err := s.users.AddFriend(r.Context(), userID, friendID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := friendIDs(w, r)
	if !ok {
		return
	}
	if err := s.users.RemoveFriend(r.Context(), userID, friendID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	friends, err := s.users.Friends(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if friends == nil {
		friends = []store.User{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handleCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	otherID, err := pathID(r, "otherId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	common, err := s.users.CommonFriends(r.Context(), id, otherID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if common == nil {
		common = []store.User{}
	}
	writeJSON(w, http.StatusOK, common)
}

func friendIDs(w http.ResponseWriter, r *http.Request) (userID, friendID int64, ok bool) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return 0, 0, false
	}
	friendID, err = pathID(r, "friendId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid friend id"})
		return 0, 0, false
	}
	return userID, friendID, true
}
