package songs

import (
	"context"

	"songbird/internal/store"
)

// NewSong carries the caller-supplied fields for a catalog insert. Artist and
// album are referenced by name and resolved with get-or-create semantics.
type NewSong struct {
	Title      string
	ArtistName string
	AlbumName  string
	Duration   int
	FilePath   string
}

// Store captures the catalog persistence needs for song workflows.
type Store interface {
	GetOrCreateArtist(ctx context.Context, name string) (store.Artist, error)
	GetOrCreateAlbum(ctx context.Context, title string, artistID int64) (store.Album, error)
	CreateSong(ctx context.Context, song store.NewSong) (store.Song, error)
	ListSongs(ctx context.Context) ([]store.Song, error)
	SearchSongs(ctx context.Context, query string) ([]store.Song, error)
	SongByID(ctx context.Context, id int64) (store.Song, error)
}

// Service exposes song-centric catalog operations.
type Service interface {
	Create(ctx context.Context, song NewSong) (store.Song, error)
	List(ctx context.Context) ([]store.Song, error)
	Search(ctx context.Context, query string) ([]store.Song, error)
	Get(ctx context.Context, id int64) (store.Song, error)
}

type service struct {
	store Store
}

// New constructs a song Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

// Create resolves the artist and album by name, creating either on first
// reference, then inserts the song row.
func (s *service) Create(ctx context.Context, song NewSong) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}

	artist, err := s.store.GetOrCreateArtist(ctx, song.ArtistName)
	if err != nil {
		return store.Song{}, err
	}

	album, err := s.store.GetOrCreateAlbum(ctx, song.AlbumName, artist.ID)
	if err != nil {
		return store.Song{}, err
	}

	return s.store.CreateSong(ctx, store.NewSong{
		Title:    song.Title,
		ArtistID: artist.ID,
		AlbumID:  album.ID,
		Duration: song.Duration,
		FilePath: song.FilePath,
	})
}

func (s *service) List(ctx context.Context) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx)
}

func (s *service) Search(ctx context.Context, query string) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.SearchSongs(ctx, query)
}

func (s *service) Get(ctx context.Context, id int64) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.SongByID(ctx, id)
}
