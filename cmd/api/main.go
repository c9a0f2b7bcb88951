package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"item-tracker/internal"
	"item-tracker/internal/config"
	"item-tracker/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := config.LoadDotEnv(".env"); err != nil {
		bootLog.Fatal().Err(err).Msg("Configuration error")
	}

	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("Configuration error")
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open store")
	}

	srv := internal.NewServer(st, cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("driver", cfg.StoreDriver).
			Bool("metrics", cfg.EnableMetrics).
			Msg("Starting item API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	st.Close()
	if err != nil {
		logger.Fatal().Err(err).Msg("Server stopped with error")
	}
	logger.Info().Msg("Server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	// Validate already checked the level.
	level, _ := zerolog.ParseLevel(cfg.LogLevel)

	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "item-api").Logger()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemory(), nil
	default:
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	}
}
