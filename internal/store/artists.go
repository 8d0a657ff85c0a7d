package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Artist is a catalog performer, de-duplicated by exact name.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetOrCreateArtist returns the artist with the exact name, inserting it if
// absent. Two concurrent creators are resolved by the unique constraint on
// artists.name: the loser re-selects the winner's row instead of failing.
func (s *Store) GetOrCreateArtist(ctx context.Context, name string) (Artist, error) {
	if name == "" {
		return Artist{}, fmt.Errorf("artist name is required")
	}

	artist, err := s.artistByName(ctx, name)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Artist{}, fmt.Errorf("lookup artist: %w", err)
	}

	artist = Artist{Name: name}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name)
		VALUES ($1)
		RETURNING id
	`, name).Scan(&artist.ID)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race; another request created it first.
			artist, err = s.artistByName(ctx, name)
			if err != nil {
				return Artist{}, fmt.Errorf("reselect artist: %w", err)
			}
			return artist, nil
		}
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}

	return artist, nil
}

func (s *Store) artistByName(ctx context.Context, name string) (Artist, error) {
	var artist Artist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name
		FROM artists
		WHERE name = $1
	`, name).Scan(&artist.ID, &artist.Name)
	return artist, err
}
