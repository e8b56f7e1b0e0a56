package models

import (
	"time"
)

// MonitoringRun records one execution of the channel monitoring pipeline.
type MonitoringRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StartedAt  time.Time `gorm:"not null;index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Trigger       string `gorm:"size:16" json:"trigger"` // "scheduled" or "manual"
	ChannelCount  int    `json:"channel_count"`
	NewVideoCount int    `json:"new_video_count"`
	Error         string `json:"error,omitempty"`
}

func (MonitoringRun) TableName() string {
	return "monitoring_runs"
}
