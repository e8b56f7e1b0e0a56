package models

import (
	"time"
)

type WordPressSite struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	URL      string `gorm:"not null" json:"url"`
	Username string `gorm:"not null" json:"username"`

	// WordPress application password, used for REST Basic auth
	ApplicationPassword string `gorm:"not null" json:"application_password"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WordPressSite) TableName() string {
	return "wordpress_sites"
}

// Masked returns a copy safe to return in API responses.
func (s WordPressSite) Masked() WordPressSite {
	s.ApplicationPassword = "********"
	return s
}
