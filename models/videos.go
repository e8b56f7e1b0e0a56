package models

import (
	"fmt"
	"time"
)

type Video struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ChannelID uint    `gorm:"not null;index" json:"channel_id"`
	Channel   Channel `gorm:"belongsTo;foreignKey:ChannelID;references:ID" json:"channel,omitempty"`

	// External YouTube video ID; the ingestion dedup key
	VideoID     string `gorm:"uniqueIndex;not null" json:"video_id"`
	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	PublishedAt time.Time `json:"published_at"`
	Transcript  *string   `gorm:"type:text" json:"transcript,omitempty"`
	Processed   bool      `gorm:"default:false;index" json:"processed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Articles []Article `gorm:"foreignKey:VideoID;references:ID" json:"articles,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}

// ThumbnailURL returns the high quality YouTube thumbnail for an external video ID.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}
