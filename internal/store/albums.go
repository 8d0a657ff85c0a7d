package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Album is a catalog release belonging to exactly one artist.
type Album struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ArtistID    int64  `json:"artist_id"`
	ReleaseYear *int   `json:"release_year,omitempty"`
}

// GetOrCreateAlbum returns the album with the given title under the given
// artist, inserting it if absent. The lookup is scoped by (title, artist_id),
// so identically titled albums under different artists stay separate rows.
// The unique constraint on that pair resolves concurrent creation the same
// way GetOrCreateArtist does.
func (s *Store) GetOrCreateAlbum(ctx context.Context, title string, artistID int64) (Album, error) {
	if title == "" {
		return Album{}, fmt.Errorf("album title is required")
	}

	album, err := s.albumByTitleAndArtist(ctx, title, artistID)
	if err == nil {
		return album, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Album{}, fmt.Errorf("lookup album: %w", err)
	}

	album = Album{Title: title, ArtistID: artistID}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, artist_id)
		VALUES ($1, $2)
		RETURNING id
	`, title, artistID).Scan(&album.ID)
	if err != nil {
		if isUniqueViolation(err) {
			album, err = s.albumByTitleAndArtist(ctx, title, artistID)
			if err != nil {
				return Album{}, fmt.Errorf("reselect album: %w", err)
			}
			return album, nil
		}
		return Album{}, fmt.Errorf("insert album: %w", err)
	}

	return album, nil
}

func (s *Store) albumByTitleAndArtist(ctx context.Context, title string, artistID int64) (Album, error) {
	var (
		album Album
		year  sql.NullInt32
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist_id, release_year
		FROM albums
		WHERE title = $1 AND artist_id = $2
	`, title, artistID).Scan(&album.ID, &album.Title, &album.ArtistID, &year)
	if err != nil {
		return Album{}, err
	}
	if year.Valid {
		y := int(year.Int32)
		album.ReleaseYear = &y
	}
	return album, nil
}
