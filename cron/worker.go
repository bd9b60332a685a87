package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "coachhub/database/repository/appointment"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/notification"
	"coachhub/services/tasks"
	"coachhub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderWorker delivers appointment reminders to both participants.
type ReminderWorker struct {
	Appointments appointmentRepo.AppointmentRepository
	Users        userRepo.UserRepository
	Notifier     notification.Notifier
}

// HandleReminder processes one appointment:reminder task. Reminders for appointments that are
// gone or no longer scheduled are dropped without retry.
func (w *ReminderWorker) HandleReminder(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	p, err := tasks.ParseReminder(task)
	if err == nil && p.AppointmentID == "" {
		err = errors.New("missing appointment id")
	}
	if err != nil {
		logger.Error("Invalid reminder payload", zap.Error(err))
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	appt, err := w.Appointments.GetByID(ctx, p.AppointmentID)
	if errors.Is(err, utils.ErrNotFound) {
		logger.Info("Reminder for missing appointment skipped", zap.String("appointmentID", p.AppointmentID))
		return nil
	}
	if err != nil {
		return err
	}
	if appt.Status != models.AppointmentScheduled {
		logger.Info("Reminder for closed appointment skipped",
			zap.String("appointmentID", appt.ID), zap.String("status", string(appt.Status)))
		return nil
	}

	at := appt.StartsAt.UTC().Format("Mon 02 Jan 15:04 MST")
	data := map[string]string{
		"type":          tasks.TypeAppointmentReminder,
		"appointmentId": appt.ID,
		"startsAt":      appt.StartsAt.UTC().Format(time.RFC3339),
	}

	clientName := "your client"
	if client, err := w.Users.GetByID(ctx, appt.ClientID); err == nil && client.Name != "" {
		clientName = client.Name
	}

	var failed error
	if err := w.notify(ctx, appt.ClientID, "Upcoming appointment", "Your appointment with your coach starts "+at, data); err != nil {
		failed = err
	}
	if err := w.notify(ctx, appt.DoctorID, "Upcoming appointment", "Appointment with "+clientName+" starts "+at, data); err != nil {
		failed = err
	}
	return failed
}

func (w *ReminderWorker) notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	err := w.Notifier.Notify(ctx, userID, title, body, data)
	if errors.Is(err, notification.ErrNoPushTarget) {
		utils.GetLogger().Debug("No push target for reminder", zap.String("userID", userID))
		return nil
	}
	if err != nil {
		utils.GetLogger().Error("Failed to send reminder", zap.String("userID", userID), zap.Error(err))
	}
	return err
}

// InitReminderWorker starts the asynq server in the background and returns it for shutdown.
func InitReminderWorker(redisOpts asynq.RedisClientOpt, w *ReminderWorker) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAppointmentReminder, w.HandleReminder)

	go func() {
		logger.Info("Starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Reminder worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Reminder worker gave up; reminders will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}
