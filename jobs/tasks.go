package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMonthlyDigest is the task type for monthly summary digests.
	TaskMonthlyDigest = "digest:monthly"
)

// MonthlyDigestPayload selects the month to digest. Zero values mean the
// month preceding execution time.
type MonthlyDigestPayload struct {
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

// NewMonthlyDigestTask constructs an Asynq task.
func NewMonthlyDigestTask(payload MonthlyDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMonthlyDigest, data), nil
}
