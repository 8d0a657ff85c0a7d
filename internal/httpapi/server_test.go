package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appsongs "songbird/internal/app/songs"
	"songbird/internal/app/users"
	"songbird/internal/auth"
	"songbird/internal/store"
)

type stubUserService struct {
	register     func(ctx context.Context, email, username, password string) (string, error)
	login        func(ctx context.Context, email, password string) (string, error)
	authenticate func(ctx context.Context, token string) (store.User, error)
}

func (s *stubUserService) Register(ctx context.Context, email, username, password string) (string, error) {
	return s.register(ctx, email, username, password)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (string, error) {
	return s.login(ctx, email, password)
}

func (s *stubUserService) Authenticate(ctx context.Context, token string) (store.User, error) {
	if s.authenticate == nil {
		return store.User{}, auth.ErrTokenInvalid
	}
	return s.authenticate(ctx, token)
}

type stubSongService struct {
	create func(ctx context.Context, song appsongs.NewSong) (store.Song, error)
	list   func(ctx context.Context) ([]store.Song, error)
	search func(ctx context.Context, query string) ([]store.Song, error)
	get    func(ctx context.Context, id int64) (store.Song, error)
}

func (s *stubSongService) Create(ctx context.Context, song appsongs.NewSong) (store.Song, error) {
	return s.create(ctx, song)
}

func (s *stubSongService) List(ctx context.Context) ([]store.Song, error) {
	return s.list(ctx)
}

func (s *stubSongService) Search(ctx context.Context, query string) ([]store.Song, error) {
	return s.search(ctx, query)
}

func (s *stubSongService) Get(ctx context.Context, id int64) (store.Song, error) {
	return s.get(ctx, id)
}

type stubPlaylistService struct {
	create  func(ctx context.Context, ownerID int64, name string) (store.Playlist, error)
	list    func(ctx context.Context, ownerID int64) ([]store.Playlist, error)
	addSong func(ctx context.Context, playlistID, songID, requesterID int64) error
}

func (s *stubPlaylistService) Create(ctx context.Context, ownerID int64, name string) (store.Playlist, error) {
	return s.create(ctx, ownerID, name)
}

func (s *stubPlaylistService) List(ctx context.Context, ownerID int64) ([]store.Playlist, error) {
	return s.list(ctx, ownerID)
}

func (s *stubPlaylistService) AddSong(ctx context.Context, playlistID, songID, requesterID int64) error {
	return s.addSong(ctx, playlistID, songID, requesterID)
}

func newTestServer(usersSvc UserService, songsSvc SongService, playlistsSvc PlaylistService) http.Handler {
	return New(usersSvc, songsSvc, playlistsSvc, "").Routes()
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		registerFn func(ctx context.Context, email, username, password string) (string, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"email":"alice@x.com","username":"alice","password":"pw123"}`,
			registerFn: func(ctx context.Context, email, username, password string) (string, error) {
				return "token-123", nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@x.com","username":"alice","password":"pw123"}`,
			registerFn: func(ctx context.Context, email, username, password string) (string, error) {
				return "", store.ErrUserExists
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "validation failure",
			body: `{"email":"","username":"","password":""}`,
			registerFn: func(ctx context.Context, email, username, password string) (string, error) {
				return "", errors.New("email, username and password are required")
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{`,
			registerFn: nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(&stubUserService{register: tc.registerFn}, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body)
			}

			if tc.wantStatus == http.StatusOK {
				var resp tokenResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.AccessToken != "token-123" || resp.TokenType != "bearer" {
					t.Fatalf("unexpected token response: %#v", resp)
				}
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	handler := newTestServer(&stubUserService{
		login: func(ctx context.Context, email, password string) (string, error) {
			if email == "alice@x.com" && password == "pw123" {
				return "token-123", nil
			}
			return "", users.ErrInvalidCredentials
		},
	}, nil, nil)

	// The form field is named "username" but carries the email.
	form := url.Values{"username": {"alice@x.com"}, "password": {"pw123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	form = url.Values{"username": {"alice@x.com"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", rec.Code)
	}
}

func TestPlaylistRoutesRequireBearerToken(t *testing.T) {
	handler := newTestServer(&stubUserService{}, nil, &stubPlaylistService{})

	tests := []struct {
		name   string
		method string
		path   string
		header string
	}{
		{"create without header", http.MethodPost, "/playlists", ""},
		{"list without header", http.MethodGet, "/playlists", ""},
		{"add without header", http.MethodPost, "/playlists/1/songs/2", ""},
		{"malformed scheme", http.MethodGet, "/playlists", "Basic abc123"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"expired token", auth.ErrTokenExpired, http.StatusUnauthorized},
		{"invalid token", auth.ErrTokenInvalid, http.StatusUnauthorized},
		{"deleted subject", store.ErrUserNotFound, http.StatusUnauthorized},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(&stubUserService{
				authenticate: func(ctx context.Context, token string) (store.User, error) {
					return store.User{}, tc.err
				},
			}, nil, &stubPlaylistService{})

			req := httptest.NewRequest(http.MethodGet, "/playlists", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandleAddPlaylistSongErrorMapping(t *testing.T) {
	authedUsers := &stubUserService{
		authenticate: func(ctx context.Context, token string) (store.User, error) {
			return store.User{ID: 1, Email: "alice@x.com"}, nil
		},
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusNoContent},
		{"playlist missing", store.ErrPlaylistNotFound, http.StatusNotFound},
		{"song missing", store.ErrSongNotFound, http.StatusNotFound},
		{"not the owner", store.ErrForbidden, http.StatusForbidden},
		{"storage failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestServer(authedUsers, nil, &stubPlaylistService{
				addSong: func(ctx context.Context, playlistID, songID, requesterID int64) error {
					return tc.err
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/playlists/5/songs/9", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body)
			}
		})
	}
}

func TestHandleSearchSongsRequiresQuery(t *testing.T) {
	handler := newTestServer(&stubUserService{}, &stubSongService{
		search: func(ctx context.Context, query string) ([]store.Song, error) {
			t.Fatal("search must not be called without a query")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/songs/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing q, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte("fake audio bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("WriteField %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestHandleUploadSong(t *testing.T) {
	uploadDir := t.TempDir()
	var got appsongs.NewSong
	handler := New(&stubUserService{}, &stubSongService{
		create: func(ctx context.Context, song appsongs.NewSong) (store.Song, error) {
			got = song
			return store.Song{ID: 7, Title: song.Title}, nil
		},
	}, nil, uploadDir).Routes()

	body, contentType := multipartUpload(t, "track.mp3", nil)
	req := httptest.NewRequest(http.MethodPost, "/songs/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Message string `json:"message"`
		SongID  int64  `json:"song_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SongID != 7 {
		t.Fatalf("expected song_id 7, got %d", resp.SongID)
	}

	// Metadata fallbacks apply when no form fields accompany the file.
	if got.Title != "track.mp3" || got.ArtistName != "Unknown" || got.AlbumName != "Unknown" {
		t.Fatalf("unexpected fallbacks: %#v", got)
	}
	if got.Duration != defaultUploadDuration {
		t.Fatalf("expected duration %d, got %d", defaultUploadDuration, got.Duration)
	}

	wantPath := filepath.Join(uploadDir, "track.mp3")
	if got.FilePath != wantPath {
		t.Fatalf("expected file path %q, got %q", wantPath, got.FilePath)
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("read saved upload: %v", err)
	}
	if string(data) != "fake audio bytes" {
		t.Fatalf("saved upload content mismatch: %q", data)
	}
}

func TestHandleUploadSongUsesProvidedMetadata(t *testing.T) {
	var got appsongs.NewSong
	handler := New(&stubUserService{}, &stubSongService{
		create: func(ctx context.Context, song appsongs.NewSong) (store.Song, error) {
			got = song
			return store.Song{ID: 8}, nil
		},
	}, nil, t.TempDir()).Routes()

	body, contentType := multipartUpload(t, "track.wav", map[string]string{
		"title":       "Song A",
		"artist_name": "Artist A",
		"album_name":  "Album A",
	})
	req := httptest.NewRequest(http.MethodPost, "/songs/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if got.Title != "Song A" || got.ArtistName != "Artist A" || got.AlbumName != "Album A" {
		t.Fatalf("expected supplied metadata, got %#v", got)
	}
}

func TestHandleUploadSongRejectsNonAudio(t *testing.T) {
	uploadDir := t.TempDir()
	handler := New(&stubUserService{}, &stubSongService{
		create: func(ctx context.Context, song appsongs.NewSong) (store.Song, error) {
			t.Fatal("create must not be called for a rejected extension")
			return store.Song{}, nil
		},
	}, nil, uploadDir).Routes()

	body, contentType := multipartUpload(t, "notes.txt", nil)
	req := httptest.NewRequest(http.MethodPost, "/songs/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, err := os.Stat(filepath.Join(uploadDir, "notes.txt")); !os.IsNotExist(err) {
		t.Fatal("rejected upload must not be written to disk")
	}
}

func TestHandleStreamSongMissing(t *testing.T) {
	handler := newTestServer(&stubUserService{}, &stubSongService{
		get: func(ctx context.Context, id int64) (store.Song, error) {
			return store.Song{}, store.ErrSongNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/songs/stream/404", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
