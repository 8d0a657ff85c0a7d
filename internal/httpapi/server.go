package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"songbird/internal/app/songs"
	"songbird/internal/auth"
	"songbird/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (store.User, error)
}

// SongService coordinates catalog operations.
type SongService interface {
	Create(ctx context.Context, song songs.NewSong) (store.Song, error)
	List(ctx context.Context) ([]store.Song, error)
	Search(ctx context.Context, query string) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
}

// PlaylistService coordinates playlist operations.
type PlaylistService interface {
	Create(ctx context.Context, ownerID int64, name string) (store.Playlist, error)
	List(ctx context.Context, ownerID int64) ([]store.Playlist, error)
	AddSong(ctx context.Context, playlistID, songID, requesterID int64) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	songs     SongService
	playlists PlaylistService
	uploadDir string
}

// New configures a Server with the given services. uploadDir is where song
// uploads land on disk.
func New(users UserService, songs SongService, playlists PlaylistService, uploadDir string) *Server {
	return &Server{
		users:     users,
		songs:     songs,
		playlists: playlists,
		uploadDir: uploadDir,
	}
}

// Routes exposes the HTTP handlers for auth, catalog and playlist management.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Songbird catalog API"})
	})

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Song routes; the original clients call these with trailing slashes, so
	// both spellings are registered.
	mux.HandleFunc("GET /songs", s.handleListSongs)
	mux.HandleFunc("GET /songs/{$}", s.handleListSongs)
	mux.HandleFunc("POST /songs", s.handleCreateSong)
	mux.HandleFunc("POST /songs/{$}", s.handleCreateSong)
	mux.HandleFunc("GET /songs/search", s.handleSearchSongs)
	mux.HandleFunc("POST /songs/upload", s.handleUploadSong)
	mux.HandleFunc("GET /songs/stream/{id}", s.handleStreamSong)

	// Playlist routes, all bearer-token protected.
	mux.HandleFunc("POST /playlists", s.handleCreatePlaylist)
	mux.HandleFunc("POST /playlists/{$}", s.handleCreatePlaylist)
	mux.HandleFunc("GET /playlists", s.handleListPlaylists)
	mux.HandleFunc("GET /playlists/{$}", s.handleListPlaylists)
	mux.HandleFunc("POST /playlists/{id}/songs/{song_id}", s.handleAddPlaylistSong)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// authenticate resolves the bearer token on the request to a user. On failure
// it writes the error response and reports false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return store.User{}, false
	}

	user, err := s.users.Authenticate(r.Context(), token)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, store.ErrUserNotFound):
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return store.User{}, false
	}

	return user, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
