package user

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a staff account: an admin or an agent. Agents additionally carry
// the public profile fields surfaced on the marketing site.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"size:20;not null;default:'agent';index" json:"role"`
	Status       string `gorm:"size:20;not null;default:'active'" json:"status"`

	// Agent public profile.
	ProfileVisible bool   `gorm:"not null;default:true" json:"profileVisible"`
	Title          string `json:"title"`
	Phone          string `json:"phone"`
	Bio            string `json:"bio"`
	Photo          string `json:"photo"`
}

func (u *User) IsAdmin() bool { return u.Role == "admin" }
func (u *User) IsAgent() bool { return u.Role == "agent" }

// Deactivate is the soft-delete used for agents still referenced by leads:
// the row survives, the account stops working and the profile disappears
// from the public site.
func (u *User) Deactivate() {
	u.Status = StatusInactive
	u.ProfileVisible = false
}
