package models

import (
	"time"
)

type Article struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	VideoID uint  `gorm:"not null;uniqueIndex:idx_articles_video_language" json:"video_id"`
	Video   Video `gorm:"belongsTo;foreignKey:VideoID;references:ID" json:"video,omitempty"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	// One article per (video, language)
	Language string `gorm:"size:8;default:'en';uniqueIndex:idx_articles_video_language" json:"language"`

	Published       bool  `gorm:"default:false" json:"published"`
	WordPressPostID *int  `gorm:"column:wordpress_post_id" json:"wordpress_post_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Article) TableName() string {
	return "articles"
}
