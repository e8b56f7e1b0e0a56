package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/tasks"
	"github.com/kyzerkul/youtube-monitor/worker"
)

func main() {
	_ = godotenv.Load()

	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := models.AutoMigrate(db); err != nil {
		platform.Logger().WithError(err).Fatal("Migration failed")
	}

	processor := worker.NewProcessor(db, rdb)
	processor.Register(tasks.QueueMonitorRun, processor.HandleMonitorRun)
	processor.Register(tasks.QueueVideoProcess, processor.HandleVideoProcess)

	platform.Logger().Info("Worker started, waiting for queue tasks")

	// A single consumer serializes monitoring runs, so two scheduled
	// runs can never overlap.
	processor.Listen(context.Background(), tasks.QueueMonitorRun, tasks.QueueVideoProcess)
}
