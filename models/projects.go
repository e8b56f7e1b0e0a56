package models

import (
	"time"
)

type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	// Output language for generated articles (en, fr, es, ...)
	Language       string `gorm:"default:'en'" json:"language"`
	AutoMonitoring bool   `gorm:"default:true" json:"auto_monitoring"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Channels       []Channel       `gorm:"foreignKey:ProjectID" json:"channels,omitempty"`
	WordPressSites []WordPressSite `gorm:"foreignKey:ProjectID" json:"wordpress_sites,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}
