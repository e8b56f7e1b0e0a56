package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Project{},
		&Channel{},
		&Video{},
		&Article{},
		&WordPressSite{},
		&LLMSettings{},
		&MonitoringRun{},
	)
}
