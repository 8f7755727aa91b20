package cms

import "time"

// settingsID pins the settings table to a single row.
const settingsID = 1

// Settings is the global visibility switchboard for the public site. One
// row, id fixed at 1, flags default to on.
type Settings struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updatedAt"`

	HeroSection       bool `gorm:"not null;default:true" json:"heroSection"`
	AgentsSection     bool `gorm:"not null;default:true" json:"agentsSection"`
	PropertiesSection bool `gorm:"not null;default:true" json:"propertiesSection"`
	LeadFormSection   bool `gorm:"not null;default:true" json:"leadFormSection"`
	MarketingSection  bool `gorm:"not null;default:true" json:"marketingSection"`
}

func defaultSettings() Settings {
	return Settings{
		ID:                settingsID,
		HeroSection:       true,
		AgentsSection:     true,
		PropertiesSection: true,
		LeadFormSection:   true,
		MarketingSection:  true,
	}
}
