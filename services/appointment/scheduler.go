package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coachhub/models"
	"coachhub/services/tasks"

	"github.com/hibiken/asynq"
)

// ReminderScheduler queues and withdraws appointment reminders.
type ReminderScheduler interface {
	Schedule(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) (string, error)
	Cancel(ctx context.Context, taskID string) error
}

// AsynqScheduler schedules reminders on an asynq queue.
type AsynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	queue     string
}

func NewAsynqScheduler(opt asynq.RedisClientOpt) *AsynqScheduler {
	return &AsynqScheduler{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		queue:     "default",
	}
}

func (s *AsynqScheduler) Schedule(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) (string, error) {
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return "", fmt.Errorf("failed to build reminder task: %w", err)
	}
	opts = append(opts, asynq.Queue(s.queue))
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return tasks.ReminderTaskID(payload.AppointmentID), nil
		}
		return "", fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return info.ID, nil
}

// Cancel deletes a pending reminder. A reminder that already ran or never existed is ignored.
func (s *AsynqScheduler) Cancel(_ context.Context, taskID string) error {
	err := s.inspector.DeleteTask(s.queue, taskID)
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("failed to delete reminder %s: %w", taskID, err)
}

func (s *AsynqScheduler) Close() error {
	if err := s.inspector.Close(); err != nil {
		return err
	}
	return s.client.Close()
}
