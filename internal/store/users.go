package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User is an account identity. Rows are created at registration and never
// mutated or deleted afterwards.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUser inserts a new user with an already-hashed password. A duplicate
// email or username surfaces as ErrUserExists.
func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash string) (User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || passwordHash == "" {
		return User{}, fmt.Errorf("email, username and password hash are required")
	}

	user := User{Email: email, Username: username, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, email, username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// UserByEmail looks up a user by exact email.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
