package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"songbird/internal/auth"
	"songbird/internal/store"
)

// bootstrapDemoData seeds a demo account and a small starter catalog so a
// fresh instance has something to browse. Both steps are idempotent.
func bootstrapDemoData(ctx context.Context, db *sql.DB, dataStore *store.Store, hasher *auth.PasswordHasher) error {
	if err := ensureDemoUser(ctx, dataStore, hasher); err != nil {
		return err
	}
	if err := ensureDemoCatalog(ctx, db, dataStore); err != nil {
		return err
	}
	return nil
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store, hasher *auth.PasswordHasher) error {
	hash, err := hasher.Hash("demo123")
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	if _, err := dataStore.CreateUser(ctx, "demo@songbird.local", "demo", hash); err != nil &&
		!errors.Is(err, store.ErrUserExists) {
		return fmt.Errorf("bootstrap demo user: %w", err)
	}
	return nil
}

func ensureDemoCatalog(ctx context.Context, db *sql.DB, dataStore *store.Store) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return fmt.Errorf("count songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seedSong struct {
		Artist   string
		Album    string
		Title    string
		Duration int
	}

	seeds := []seedSong{
		{"Boards of Canada", "Music Has the Right to Children", "Roygbiv", 149},
		{"Boards of Canada", "Music Has the Right to Children", "Turquoise Hexagon Sun", 317},
		{"Massive Attack", "Mezzanine", "Teardrop", 330},
		{"Portishead", "Dummy", "Glory Box", 305},
		{"Radiohead", "OK Computer", "No Surprises", 229},
	}

	for _, seed := range seeds {
		artist, err := dataStore.GetOrCreateArtist(ctx, seed.Artist)
		if err != nil {
			return fmt.Errorf("seed artist %q: %w", seed.Artist, err)
		}
		album, err := dataStore.GetOrCreateAlbum(ctx, seed.Album, artist.ID)
		if err != nil {
			return fmt.Errorf("seed album %q: %w", seed.Album, err)
		}
		if _, err := dataStore.CreateSong(ctx, store.NewSong{
			Title:    seed.Title,
			ArtistID: artist.ID,
			AlbumID:  album.ID,
			Duration: seed.Duration,
		}); err != nil {
			return fmt.Errorf("seed song %q: %w", seed.Title, err)
		}
	}

	return nil
}
