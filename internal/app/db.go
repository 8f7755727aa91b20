package app

import (
	"github.com/dunecrest/realty-api/internal/cms"
	"github.com/dunecrest/realty-api/internal/config"
	"github.com/dunecrest/realty-api/internal/content"
	"github.com/dunecrest/realty-api/internal/deal"
	"github.com/dunecrest/realty-api/internal/hero"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/dunecrest/realty-api/internal/user"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens the postgres connection with quiet gorm logging.
func ConnectDatabase(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
}

// Migrate runs AutoMigrate across every model the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&lead.Lead{},
		&lead.Note{},
		&deal.Deal{},
		&cms.Settings{},
		&hero.Hero{},
		&content.Property{},
		&content.Slide{},
		&content.Collaboration{},
		&content.YourPerfect{},
		&content.SidebarCard{},
		&content.Showcase{},
	)
}
