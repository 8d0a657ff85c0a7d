package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Song is a catalog track joined with its artist and album names.
type Song struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	ArtistID int64  `json:"-"`
	AlbumID  int64  `json:"-"`
	Duration int    `json:"duration"`
	FilePath string `json:"-"`
}

// NewSong carries the fields for a song insert.
type NewSong struct {
	Title    string
	ArtistID int64
	AlbumID  int64
	Duration int
	FilePath string
}

// CreateSong inserts a song row unconditionally; duplicate titles are allowed.
func (s *Store) CreateSong(ctx context.Context, song NewSong) (Song, error) {
	if song.Title == "" {
		return Song{}, fmt.Errorf("song title is required")
	}
	if song.Duration < 0 {
		return Song{}, fmt.Errorf("duration must not be negative")
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist_id, album_id, duration, file_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, song.Title, song.ArtistID, song.AlbumID, song.Duration, nullIfEmpty(song.FilePath)).Scan(&id)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}

	return s.SongByID(ctx, id)
}

// ListSongs returns the full catalog in storage order.
func (s *Store) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, ar.name, al.title, s.artist_id, s.album_id, s.duration, COALESCE(s.file_path, '')
		FROM songs s
		JOIN artists ar ON ar.id = s.artist_id
		JOIN albums al ON al.id = s.album_id
		ORDER BY s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select songs: %w", err)
	}
	defer rows.Close()

	return scanSongRows(rows)
}

// SearchSongs returns songs whose title or artist name contains the query as
// a case-sensitive substring, in storage order. No ranking is applied.
func (s *Store) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, ar.name, al.title, s.artist_id, s.album_id, s.duration, COALESCE(s.file_path, '')
		FROM songs s
		JOIN artists ar ON ar.id = s.artist_id
		JOIN albums al ON al.id = s.album_id
		WHERE s.title LIKE $1 OR ar.name LIKE $1
		ORDER BY s.id ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	return scanSongRows(rows)
}

// SongByID returns a single song by its identifier.
func (s *Store) SongByID(ctx context.Context, id int64) (Song, error) {
	var (
		song     Song
		filePath sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.title, ar.name, al.title, s.artist_id, s.album_id, s.duration, s.file_path
		FROM songs s
		JOIN artists ar ON ar.id = s.artist_id
		JOIN albums al ON al.id = s.album_id
		WHERE s.id = $1
	`, id).Scan(&song.ID, &song.Title, &song.Artist, &song.Album, &song.ArtistID, &song.AlbumID, &song.Duration, &filePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Song{}, ErrSongNotFound
		}
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	song.FilePath = filePath.String
	return song, nil
}

func scanSongRows(rows *sql.Rows) ([]Song, error) {
	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album,
			&song.ArtistID, &song.AlbumID, &song.Duration, &song.FilePath); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
