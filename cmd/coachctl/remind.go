package main

import (
	"fmt"
	"time"

	"coachhub/database"
	appointmentRepo "coachhub/database/repository/appointment"
	"coachhub/models"
	"coachhub/services/tasks"
	"coachhub/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind [appointment-id]",
	Short: "Enqueue an immediate reminder for an appointment",
	Long:  "Enqueue an appointment reminder for right now, alongside any reminder already scheduled for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appts := appointmentRepo.NewMongoAppointmentRepo(database.Database())
		appt, err := appts.GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load appointment: %w", err)
		}

		task, opts, err := manualReminder(appt, time.Now())
		if err != nil {
			return err
		}
		client := asynq.NewClient(utils.QueueRedisOpt())
		defer client.Close()

		info, err := client.EnqueueContext(cmd.Context(), task, opts...)
		if err != nil {
			return fmt.Errorf("enqueue reminder: %w", err)
		}
		fmt.Printf("Enqueued reminder %s for appointment %s on queue %s\n", info.ID, appt.ID, info.Queue)
		return nil
	},
}

// manualReminder builds a reminder that fires at now under a fresh task ID,
// so it never collides with the appointment's scheduled reminder.
func manualReminder(appt *models.Appointment, now time.Time) (*asynq.Task, []asynq.Option, error) {
	task, opts, err := tasks.NewReminderTask(models.ReminderPayload{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		ClientID:      appt.ClientID,
		StartsAt:      appt.StartsAt,
	}, now)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, asynq.TaskID("manual:"+tasks.ReminderTaskID(appt.ID)+":"+uuid.NewString()))
	return task, opts, nil
}
