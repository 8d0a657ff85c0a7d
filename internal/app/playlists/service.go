package playlists

import (
	"context"

	"songbird/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CreatePlaylist(ctx context.Context, ownerID int64, name string) (store.Playlist, error)
	ListPlaylists(ctx context.Context, ownerID int64) ([]store.Playlist, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID, requesterID int64) error
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, ownerID int64, name string) (store.Playlist, error)
	List(ctx context.Context, ownerID int64) ([]store.Playlist, error)
	AddSong(ctx context.Context, playlistID, songID, requesterID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, ownerID int64, name string) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.CreatePlaylist(ctx, ownerID, name)
}

func (s *service) List(ctx context.Context, ownerID int64) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylists(ctx, ownerID)
}

func (s *service) AddSong(ctx context.Context, playlistID, songID, requesterID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddSongToPlaylist(ctx, playlistID, songID, requesterID)
}
