package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"songbird/internal/store"
)

type playlistRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	playlist, err := s.playlists.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	list, err := s.playlists.List(r.Context(), user.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Playlists []store.Playlist `json:"playlists"`
	}{Playlists: list})
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	playlistID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid playlist id"})
		return
	}
	songID, err := strconv.ParseInt(r.PathValue("song_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.playlists.AddSong(r.Context(), playlistID, songID, user.ID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, store.ErrPlaylistNotFound), errors.Is(err, store.ErrSongNotFound):
			status = http.StatusNotFound
		case errors.Is(err, store.ErrForbidden):
			status = http.StatusForbidden
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
