package tasks

import (
	"encoding/json"
	"time"

	"coachhub/models"

	"github.com/hibiken/asynq"
)

// TypeAppointmentReminder is the asynq task type for appointment reminders.
const TypeAppointmentReminder = "appointment:reminder"

// ReminderTaskID is the asynq task ID used for an appointment's reminder.
func ReminderTaskID(appointmentID string) string {
	return "reminder:" + appointmentID
}

// NewReminderTask builds the reminder task for payload, processed at fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{
		asynq.TaskID(ReminderTaskID(payload.AppointmentID)),
		asynq.ProcessAt(fireAt),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ParseReminder decodes a reminder task payload.
func ParseReminder(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
