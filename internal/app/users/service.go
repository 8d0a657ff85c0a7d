package users

import (
	"context"
	"errors"
	"fmt"

	"songbird/internal/auth"
	"songbird/internal/store"
)

// ErrInvalidCredentials indicates a login failure. Unknown email and wrong
// password are reported identically so callers cannot tell them apart.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (store.User, error)
	UserByEmail(ctx context.Context, email string) (store.User, error)
}

// Service exposes registration, login and token authentication.
type Service interface {
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (store.User, error)
}

type service struct {
	store  Store
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

// New wires a Service from the store, password hasher and token issuer.
func New(store Store, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) Service {
	return &service{store: store, hasher: hasher, tokens: tokens}
}

// Register creates an account and returns a fresh token for it. A user with
// the same email yields store.ErrUserExists; the existence check runs before
// the insert, and the storage unique constraint catches the remaining race.
func (s *service) Register(ctx context.Context, email, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if email == "" || username == "" || password == "" {
		return "", fmt.Errorf("email, username and password are required")
	}

	_, err := s.store.UserByEmail(ctx, email)
	if err == nil {
		return "", store.ErrUserExists
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	user, err := s.store.CreateUser(ctx, email, username, hash)
	if err != nil {
		return "", err
	}

	return s.tokens.Issue(user.Email)
}

// Login checks credentials and returns a token on success.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.hasher.CompareDummy(password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.Email)
}

// Authenticate resolves a bearer token to its user. A structurally valid
// token whose subject no longer resolves yields store.ErrUserNotFound.
func (s *service) Authenticate(ctx context.Context, token string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}

	subject, err := s.tokens.Verify(token)
	if err != nil {
		return store.User{}, err
	}

	return s.store.UserByEmail(ctx, subject)
}
