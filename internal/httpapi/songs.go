package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appsongs "songbird/internal/app/songs"
	"songbird/internal/store"
)

// defaultUploadDuration is used when an upload carries no duration metadata.
const defaultUploadDuration = 180

var allowedAudioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

type songRequest struct {
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name"`
	Duration   int    `json:"duration"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	list, err := s.songs.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: list})
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	song, err := s.songs.Create(r.Context(), appsongs.NewSong{
		Title:      req.Title,
		ArtistName: req.ArtistName,
		AlbumName:  req.AlbumName,
		Duration:   req.Duration,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleSearchSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing q parameter"})
		return
	}

	list, err := s.songs.Search(r.Context(), query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Songs []store.Song `json:"songs"`
	}{Songs: list})
}

func (s *Server) handleUploadSong(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file upload"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAudioExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "only audio files allowed"})
		return
	}

	filename := filepath.Base(header.Filename)
	path := filepath.Join(s.uploadDir, filename)
	if err := saveUpload(path, file); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = filename
	}
	artistName := r.FormValue("artist_name")
	if artistName == "" {
		artistName = "Unknown"
	}
	albumName := r.FormValue("album_name")
	if albumName == "" {
		albumName = "Unknown"
	}

	song, err := s.songs.Create(r.Context(), appsongs.NewSong{
		Title:      title,
		ArtistName: artistName,
		AlbumName:  albumName,
		Duration:   defaultUploadDuration,
		FilePath:   path,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string `json:"message"`
		SongID  int64  `json:"song_id"`
	}{Message: "Song uploaded successfully", SongID: song.ID})
}

func (s *Server) handleStreamSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	song, err := s.songs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "song not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if song.FilePath == "" {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "song not found"})
		return
	}
	if _, err := os.Stat(song.FilePath); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "song not found"})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, song.FilePath)
}

func saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}
