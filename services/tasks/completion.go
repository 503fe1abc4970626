package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeAppointmentComplete = "appointment:complete"

// CompletionPayload identifies the appointment to mark completed.
type CompletionPayload struct {
	AppointmentID string `json:"appointmentId"`
}

// NewCompletionTask builds the task that fires once the appointment's end
// time has passed.
func NewCompletionTask(payload CompletionPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentComplete, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
