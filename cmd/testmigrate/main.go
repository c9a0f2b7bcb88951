package main

import (
	"context"
	"os"
	"time"

	"item-tracker/internal/store"
	"item-tracker/internal/testutil"

	"github.com/rs/zerolog"
)

// testmigrate creates the items schema in the integration test database.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// NewPostgres applies the embedded schema after connecting.
	pg, err := store.NewPostgres(ctx, testutil.DSN())
	if err != nil {
		cancel()
		logger.Fatal().Err(err).Msg("Failed to prepare test database")
	}
	defer pg.Close()

	logger.Info().Msg("Schema applied successfully")
}
