package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Playlist is a named, user-owned collection of songs. Membership is an
// unordered set of (playlist, song) pairs.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	SongCount int       `json:"songs_count"`
}

// CreatePlaylist persists a new, empty playlist for the owner.
func (s *Store) CreatePlaylist(ctx context.Context, ownerID int64, name string) (Playlist, error) {
	if name == "" {
		return Playlist{}, fmt.Errorf("playlist name is required")
	}

	playlist := Playlist{Name: name, UserID: ownerID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, name, ownerID).Scan(&playlist.ID, &playlist.CreatedAt)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}

	return playlist, nil
}

// ListPlaylists returns the owner's playlists with their song counts.
func (s *Store) ListPlaylists(ctx context.Context, ownerID int64) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, user_id, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.UserID, &playlist.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}

	if len(playlists) == 0 {
		return playlists, nil
	}

	ids := make([]int64, len(playlists))
	for i, playlist := range playlists {
		ids[i] = playlist.ID
	}

	counts, err := s.playlistSongCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		playlists[i].SongCount = counts[playlists[i].ID]
	}

	return playlists, nil
}

// AddSongToPlaylist records a membership pair. The playlist must exist and be
// owned by the requester, and the song must exist. Adding a pair that is
// already present is a no-op.
func (s *Store) AddSongToPlaylist(ctx context.Context, playlistID, songID, requesterID int64) error {
	var ownerID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlaylistNotFound
		}
		return fmt.Errorf("lookup playlist: %w", err)
	}
	if ownerID != requesterID {
		return ErrForbidden
	}

	var exists int64
	err = s.db.QueryRowContext(ctx, `
		SELECT id
		FROM songs
		WHERE id = $1
	`, songID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSongNotFound
		}
		return fmt.Errorf("lookup song: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT (playlist_id, song_id) DO NOTHING
	`, playlistID, songID); err != nil {
		return fmt.Errorf("insert playlist song: %w", err)
	}

	return nil
}

func (s *Store) playlistSongCounts(ctx context.Context, playlistIDs []int64) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT playlist_id, COUNT(*)
		FROM playlist_songs
		WHERE playlist_id = ANY($1)
		GROUP BY playlist_id
	`, pq.Array(playlistIDs))
	if err != nil {
		return nil, fmt.Errorf("count playlist songs: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(playlistIDs))
	for rows.Next() {
		var (
			id    int64
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan playlist song count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist song counts: %w", err)
	}
	return counts, nil
}
