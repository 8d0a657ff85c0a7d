package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the email or username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrSongNotFound signals a missing song record.
	ErrSongNotFound = errors.New("song not found")
	// ErrPlaylistNotFound signals a missing playlist record.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrForbidden signals an operation on a playlist the caller does not own.
	ErrForbidden = errors.New("not the playlist owner")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
