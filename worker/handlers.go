package worker

import (
	"context"
	"encoding/json"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/tasks"
)

// HandleMonitorRun processes tasks from QueueMonitorRun. The queue is
// consumed by a single worker, so monitoring runs never overlap.
func (p *Processor) HandleMonitorRun(ctx context.Context, payload string) error {
	var task tasks.MonitorRunPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log := platform.Logger().WithField("trigger", task.Trigger)
	log.Info("Starting monitoring run")

	run, err := p.Pipeline.RunMonitoring(ctx, task.Trigger)
	if err != nil {
		return err
	}

	log.WithFields(map[string]interface{}{
		"channels":   run.ChannelCount,
		"new_videos": run.NewVideoCount,
	}).Info("Monitoring run complete")
	return nil
}

// HandleVideoProcess processes tasks from QueueVideoProcess: transcript,
// article generation and best-effort auto-publish for one video.
func (p *Processor) HandleVideoProcess(ctx context.Context, payload string) error {
	var task tasks.VideoProcessPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	platform.Logger().WithField("video_id", task.VideoID).Info("Processing video")

	_, err := p.Pipeline.ProcessVideo(ctx, task.VideoID)
	return err
}
