package main

import (
	"net/http"
	"os"

	"github.com/dunecrest/realty-api/internal/app"
	"github.com/dunecrest/realty-api/internal/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is not set")
	}

	db, err := app.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := app.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	router := app.NewRouter(db, cfg, logger)

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
