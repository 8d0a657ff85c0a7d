package main

import (
	"net/http"

	"songbird/internal/app/playlists"
	"songbird/internal/app/songs"
	"songbird/internal/app/users"
	"songbird/internal/auth"
	"songbird/internal/http/middleware"
	"songbird/internal/httpapi"
	"songbird/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store) (http.Handler, error) {
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return nil, err
	}

	userSvc := users.New(dataStore, hasher, tokens)
	songSvc := songs.New(dataStore)
	playlistSvc := playlists.New(dataStore)

	routes := httpapi.New(userSvc, songSvc, playlistSvc, cfg.UploadDir).Routes()

	handler := middleware.CORS(cfg.AllowedOrigins)(routes)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)

	return handler, nil
}
