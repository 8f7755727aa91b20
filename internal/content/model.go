// Package content holds the marketing entities of the public site. They are
// pure data: image/video references plus copy, no business rules beyond
// rendering media as absolute URLs.
package content

import (
	"time"

	"github.com/dunecrest/realty-api/internal/media"
)

// Property is a marketed listing card.
type Property struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title    string `gorm:"not null" json:"title"`
	Location string `json:"location"`
	Price    string `json:"price"`
	Img      string `json:"img"`
}

func (p *Property) ResolveMedia(origin string) {
	p.Img = media.AbsoluteURL(origin, p.Img)
}

// Slide is a carousel slide with bullet points.
type Slide struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title    string   `gorm:"not null" json:"title"`
	Location string   `json:"location"`
	Img      string   `json:"img"`
	Points   []string `gorm:"type:jsonb;serializer:json" json:"points"`
}

func (s *Slide) ResolveMedia(origin string) {
	s.Img = media.AbsoluteURL(origin, s.Img)
}

// Collaboration is a partner block with an image and a logo.
type Collaboration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title string `gorm:"not null" json:"title"`
	Desc  string `json:"desc"`
	Img   string `json:"img"`
	Logo  string `json:"logo"`
}

func (c *Collaboration) ResolveMedia(origin string) {
	c.Img = media.AbsoluteURL(origin, c.Img)
	c.Logo = media.AbsoluteURL(origin, c.Logo)
}

// YourPerfect is the "your perfect home" card.
type YourPerfect struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title string `gorm:"not null" json:"title"`
	Price string `json:"price"`
	Img   string `json:"img"`
}

func (y *YourPerfect) ResolveMedia(origin string) {
	y.Img = media.AbsoluteURL(origin, y.Img)
}

// SidebarCard is a small promotional card.
type SidebarCard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title string `gorm:"not null" json:"title"`
	Desc  string `json:"desc"`
	Img   string `json:"img"`
}

func (s *SidebarCard) ResolveMedia(origin string) {
	s.Img = media.AbsoluteURL(origin, s.Img)
}

// Showcase kinds. The site carries two promotional video strips; a kind
// discriminator keeps them in one table.
const (
	ShowcaseDamac     = "damac"
	ShowcaseCommunity = "community"
)

// Showcase is a promotional video entry.
type Showcase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Kind  string `gorm:"size:30;not null;index" json:"kind"`
	Video string `gorm:"not null" json:"video"`
}

func (s *Showcase) ResolveMedia(origin string) {
	s.Video = media.AbsoluteURL(origin, s.Video)
}
