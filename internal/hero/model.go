package hero

import (
	"time"

	"github.com/dunecrest/realty-api/internal/media"
)

const (
	TypeImage = "image"
	TypeVideo = "video"
)

// Hero is a landing banner. Several rows may exist; the public site shows
// only the most recently updated active one.
type Hero struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`

	Type       string `gorm:"size:20;not null;default:'image'" json:"type"`
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	CTAText    string `json:"ctaText"`
	CTALink    string `json:"ctaLink"`
	Media      string `json:"media"`
	Video      string `json:"video"`
	IsActive   bool   `gorm:"not null;default:false;index" json:"isActive"`
}

func (h *Hero) ResolveMedia(origin string) {
	h.Media = media.AbsoluteURL(origin, h.Media)
	h.Video = media.AbsoluteURL(origin, h.Video)
}
