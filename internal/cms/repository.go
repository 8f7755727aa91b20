package cms

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Get(db *gorm.DB) (*Settings, error)
	Update(db *gorm.DB, s *Settings) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Get returns the singleton row, creating it with every flag on when it
// does not exist yet. The fixed primary key makes the create idempotent
// under concurrent callers: the second insert is a no-op conflict.
func (r *repositoryImpl) Get(db *gorm.DB) (*Settings, error) {
	var s Settings
	err := db.First(&s, settingsID).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s = defaultSettings()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
		return nil, err
	}
	// Re-read in case another request won the insert race.
	if err := db.First(&s, settingsID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) Update(db *gorm.DB, s *Settings) error {
	s.ID = settingsID
	return db.Save(s).Error
}
