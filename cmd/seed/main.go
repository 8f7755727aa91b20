// Command seed bootstraps the first admin account so the service is
// usable on a fresh database.
package main

import (
	"errors"
	"os"

	"github.com/dunecrest/realty-api/internal/app"
	"github.com/dunecrest/realty-api/internal/config"
	"github.com/dunecrest/realty-api/internal/user"
	"github.com/dunecrest/realty-api/internal/utils"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := app.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := app.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	repo := user.NewRepository()
	if _, err := repo.FindByEmail(db, email); err == nil {
		logger.Info().Str("email", email).Msg("admin already exists, nothing to do")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Fatal().Err(err).Msg("failed to look up admin")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to hash password")
	}
	admin := user.User{
		Name:           "Administrator",
		Email:          email,
		PasswordHash:   hash,
		Role:           "admin",
		Status:         user.StatusActive,
		ProfileVisible: false,
	}
	if err := repo.Save(db, &admin); err != nil {
		logger.Fatal().Err(err).Msg("failed to create admin")
	}
	logger.Info().Str("email", email).Uint("id", admin.ID).Msg("admin created")
}
