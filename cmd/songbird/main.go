package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"songbird/internal/auth"
	"songbird/internal/logging"
	"songbird/internal/store"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Setup(logging.Config{})
		log.Fatal().Err(err).Msg("load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := openDatabase(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	dataStore := store.New(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	if err := bootstrapDemoData(context.Background(), db, dataStore, hasher); err != nil {
		log.Fatal().Err(err).Msg("bootstrap demo data")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create upload dir")
	}

	handler, err := newHTTPHandler(cfg, dataStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build http handler")
	}

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
