package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskUpstreamProbe checks that every upstream feed answers with a usable body.
	TaskUpstreamProbe = "dashboard:upstream_probe"
)

// UpstreamProbePayload limits a probe to the named feeds. Empty means all.
type UpstreamProbePayload struct {
	Feeds []string `json:"feeds,omitempty"`
}

// NewUpstreamProbeTask constructs an Asynq task.
func NewUpstreamProbeTask(payload UpstreamProbePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUpstreamProbe, data, asynq.Queue(QueueDefault), asynq.MaxRetry(0)), nil
}
