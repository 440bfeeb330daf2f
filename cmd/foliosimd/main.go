package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"foliosim/internal/config"
	"foliosim/internal/configstore"
	"foliosim/internal/engine"
	"foliosim/internal/repository"
	"foliosim/internal/server"
	"foliosim/internal/yahoo"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	log.Info().Msg("Starting foliosim server")

	db, err := configstore.OpenSQLite(cfg.ConfigDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open config store")
	}
	defer db.Close()
	if err := configstore.InitSchema(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to init config store schema")
	}

	source, cleanup, err := newPriceSource(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.PriceSource).Msg("Failed to init price source")
	}
	defer cleanup()

	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Source:  source,
		Configs: configstore.NewStore(db),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func newPriceSource(cfg config.Config, log zerolog.Logger) (engine.PriceSource, func(), error) {
	switch cfg.PriceSource {
	case "postgres":
		db, err := repository.NewDatabase(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return &db, db.Close, nil
	default:
		return yahoo.NewSource(yahoo.NewClient(log), false), func() {}, nil
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
