package models

import (
	"fmt"
	"time"
)

type Channel struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProjectID uint    `gorm:"not null;index" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	// External YouTube channel ID (UC...)
	ChannelID   string `gorm:"not null;index" json:"channel_id"`
	ChannelName string `gorm:"not null" json:"channel_name"`
	RssURL      string `json:"rss_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Channel) TableName() string {
	return "youtube_channels"
}

// FeedURL returns the YouTube RSS feed URL for an external channel ID.
func FeedURL(channelID string) string {
	return fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", channelID)
}
