package user

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, u *User) error
	FindByID(db *gorm.DB, id uint) (*User, error)
	FindByEmail(db *gorm.DB, email string) (*User, error)
	ListAll(db *gorm.DB) ([]User, error)
	ListByRole(db *gorm.DB, role string) ([]User, error)
	ListPublicAgents(db *gorm.DB) ([]User, error)
	Delete(db *gorm.DB, u *User) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.Order("id").Find(&users).Error
	return users, err
}

func (r *repositoryImpl) ListByRole(db *gorm.DB, role string) ([]User, error) {
	var users []User
	err := db.Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

// ListPublicAgents returns the agents surfaced on the marketing site:
// active, visible, role=agent.
func (r *repositoryImpl) ListPublicAgents(db *gorm.DB) ([]User, error) {
	var users []User
	err := db.
		Where("role = ? AND status = ? AND profile_visible = ?", "agent", StatusActive, true).
		Order("id").
		Find(&users).Error
	return users, err
}

func (r *repositoryImpl) Delete(db *gorm.DB, u *User) error {
	return db.Delete(u).Error
}
