package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
// We define all queue names as constants here.
const (
	// QueueMonitorRun triggers a full "check all channels" monitoring pass.
	// A single worker consumes it, so runs never overlap.
	QueueMonitorRun = "q_monitor_run"

	// QueueVideoProcess handles one video: transcript, article, auto-publish.
	QueueVideoProcess = "q_video_process"
)

// ---
// TASK PAYLOADS
// ---
// These are the structs that will be JSON-marshalled and sent to Redis.

// MonitorRunPayload is the payload for QueueMonitorRun
type MonitorRunPayload struct {
	Trigger string `json:"trigger"` // "scheduled" or "manual"
}

// VideoProcessPayload is the payload for QueueVideoProcess
type VideoProcessPayload struct {
	VideoID uint `json:"video_id"`
}

// ---
// HELPER FUNCTIONS
// ---

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
