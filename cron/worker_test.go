package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"coachhub/database/repository/repotest"
	"coachhub/models"
	"coachhub/services/notification"
	"coachhub/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	sent []string
	errs map[string]error
}

func (n *recordingNotifier) Notify(_ context.Context, userID, _, body string, data map[string]string) error {
	if err := n.errs[userID]; err != nil {
		return err
	}
	n.sent = append(n.sent, userID+"|"+body+"|"+data["appointmentId"])
	return nil
}

func reminderTask(t *testing.T, apptID string) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewReminderTask(models.ReminderPayload{AppointmentID: apptID}, time.Now())
	require.NoError(t, err)
	return task
}

func newWorker(status models.AppointmentStatus, n *recordingNotifier) *ReminderWorker {
	starts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	return &ReminderWorker{
		Appointments: repotest.NewAppointments(models.Appointment{
			ID: "a1", DoctorID: "d1", ClientID: "c1", StartsAt: starts, EndsAt: starts.Add(30 * time.Minute), Status: status,
		}),
		Users: repotest.NewUsers(
			models.User{ID: "d1", Role: models.RoleDoctor, Name: "Dr. Ames", Email: "ames@example.com"},
			models.User{ID: "c1", Role: models.RoleClient, Name: "Bea", Email: "bea@example.com",
				Client: &models.ClientProfile{DoctorID: "d1", Status: models.ClientActive}},
		),
		Notifier: n,
	}
}

func TestHandleReminderNotifiesBothParticipants(t *testing.T) {
	n := &recordingNotifier{}
	w := newWorker(models.AppointmentScheduled, n)

	require.NoError(t, w.HandleReminder(context.Background(), reminderTask(t, "a1")))
	assert.Equal(t, []string{
		"c1|Your appointment with your coach starts Mon 02 Mar 09:30 UTC|a1",
		"d1|Appointment with Bea starts Mon 02 Mar 09:30 UTC|a1",
	}, n.sent)
}

func TestHandleReminderSkipsClosedAppointments(t *testing.T) {
	n := &recordingNotifier{}
	w := newWorker(models.AppointmentCancelled, n)

	require.NoError(t, w.HandleReminder(context.Background(), reminderTask(t, "a1")))
	assert.Empty(t, n.sent)
}

func TestHandleReminderSkipsMissingAppointments(t *testing.T) {
	n := &recordingNotifier{}
	w := newWorker(models.AppointmentScheduled, n)

	require.NoError(t, w.HandleReminder(context.Background(), reminderTask(t, "gone")))
	assert.Empty(t, n.sent)
}

func TestHandleReminderIgnoresUsersWithoutPushToken(t *testing.T) {
	n := &recordingNotifier{errs: map[string]error{"c1": notification.ErrNoPushTarget}}
	w := newWorker(models.AppointmentScheduled, n)

	require.NoError(t, w.HandleReminder(context.Background(), reminderTask(t, "a1")))
	assert.Len(t, n.sent, 1)
}

func TestHandleReminderRetriesDeliveryFailures(t *testing.T) {
	n := &recordingNotifier{errs: map[string]error{"d1": errors.New("fcm down")}}
	w := newWorker(models.AppointmentScheduled, n)

	err := w.HandleReminder(context.Background(), reminderTask(t, "a1"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleReminderRejectsBadPayload(t *testing.T) {
	w := newWorker(models.AppointmentScheduled, &recordingNotifier{})

	err := w.HandleReminder(context.Background(), asynq.NewTask(tasks.TypeAppointmentReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	empty, _ := json.Marshal(models.ReminderPayload{})
	err = w.HandleReminder(context.Background(), asynq.NewTask(tasks.TypeAppointmentReminder, empty))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
