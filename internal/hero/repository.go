package hero

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, h *Hero) error
	FindByID(db *gorm.DB, id uint) (*Hero, error)
	ListAll(db *gorm.DB) ([]Hero, error)
	FindCurrent(db *gorm.DB) (*Hero, error)
	Delete(db *gorm.DB, h *Hero) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, h *Hero) error {
	return db.Save(h).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Hero, error) {
	var h Hero
	if err := db.First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Hero, error) {
	var heroes []Hero
	err := db.Order("updated_at DESC").Find(&heroes).Error
	return heroes, err
}

// FindCurrent returns the most recently updated active hero.
func (r *repositoryImpl) FindCurrent(db *gorm.DB) (*Hero, error) {
	var h Hero
	err := db.Where("is_active = ?", true).Order("updated_at DESC").First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repositoryImpl) Delete(db *gorm.DB, h *Hero) error {
	return db.Delete(h).Error
}
