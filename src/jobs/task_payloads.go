package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypePurgeStaleResponses = "response:purge_stale"
	TypeAutoArchiveFlow     = "flow:auto_archive"
)

type PurgeStalePayload struct {
	MaxIdleHours int `json:"max_idle_hours"`
}

type FlowPayload struct {
	FlowID string `json:"flow_id"`
}

// NewPurgeStaleResponsesTask builds the task that deletes abandoned
// in-progress responses older than maxIdle.
func NewPurgeStaleResponsesTask(maxIdle time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(PurgeStalePayload{MaxIdleHours: int(maxIdle.Hours())})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePurgeStaleResponses, payload), nil
}

// NewAutoArchiveFlowTask builds the task that archives a published flow,
// usually enqueued with asynq.ProcessAt for a scheduled close.
func NewAutoArchiveFlowTask(flowID string) (*asynq.Task, error) {
	payload, err := json.Marshal(FlowPayload{FlowID: flowID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAutoArchiveFlow, payload), nil
}
