package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// openDatabase opens a pgx-backed handle and waits for the instance to accept
// pings, retrying with doubling backoff until cfg.DBConnectTimeout elapses.
// Containerized Postgres often comes up after the API does.
func openDatabase(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()

	backoff := 250 * time.Millisecond
	for attempt := 1; ; attempt++ {
		pingCtx, cancelPing := context.WithTimeout(waitCtx, pingTimeout)
		err = db.PingContext(pingCtx)
		cancelPing()
		if err == nil {
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")

		select {
		case <-waitCtx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		case <-time.After(backoff):
		}
		if backoff < 4*time.Second {
			backoff *= 2
		}
	}
}
