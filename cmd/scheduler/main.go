package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/tasks"
)

// defaultSchedule runs a monitoring pass every 6 hours.
const defaultSchedule = "0 */6 * * *"

func main() {
	_ = godotenv.Load()

	rdb := platform.NewRedisClient()
	ctx := context.Background()
	log := platform.Logger()

	schedule := os.Getenv("CRON_SCHEDULE")
	if schedule == "" {
		schedule = defaultSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		payload, err := tasks.Marshal(tasks.MonitorRunPayload{Trigger: "scheduled"})
		if err != nil {
			log.WithError(err).Error("Error marshalling monitoring task")
			return
		}
		if err := rdb.LPush(ctx, tasks.QueueMonitorRun, payload).Err(); err != nil {
			log.WithError(err).Error("Error queueing monitoring run")
			return
		}
		log.Info("Queued scheduled monitoring run")
	})
	if err != nil {
		log.WithError(err).Fatal("Invalid cron schedule")
	}

	c.Start()
	defer c.Stop()

	log.WithField("schedule", schedule).Info("Scheduler started")

	// Keep the main thread alive
	select {}
}
