package appointment

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"coachhub/database/repository/repotest"
	"coachhub/models"
	"coachhub/services/tasks"
	"coachhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
	err       error
}

func (f *fakeScheduler) Schedule(_ context.Context, p models.ReminderPayload, fireAt time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	id := tasks.ReminderTaskID(p.AppointmentID)
	f.scheduled[id] = fireAt
	return id, nil
}

func (f *fakeScheduler) Cancel(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, taskID)
	return nil
}

type sink struct {
	mu          sync.Mutex
	events      map[string][]string
	invalidated int
}

func (s *sink) Publish(userID string, ev models.RealtimeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[userID] = append(s.events[userID], ev.Type)
}

func (s *sink) Invalidate(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
}

// lockstepAppointments holds every GetByID until n callers have read, so concurrent
// transitions all see the same pre-write state.
type lockstepAppointments struct {
	*repotest.Appointments
	loaded sync.WaitGroup
}

func newLockstep(inner *repotest.Appointments, n int) *lockstepAppointments {
	l := &lockstepAppointments{Appointments: inner}
	l.loaded.Add(n)
	return l
}

func (l *lockstepAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, err := l.Appointments.GetByID(ctx, id)
	l.loaded.Done()
	l.loaded.Wait()
	return a, err
}

var (
	doctor = models.Viewer{UserID: "d1", Role: models.RoleDoctor}
	client = models.Viewer{UserID: "c1", Role: models.RoleClient}
)

func newService() (*DefaultAppointmentService, *fakeScheduler, *sink) {
	sched := &fakeScheduler{scheduled: map[string]time.Time{}}
	events := &sink{events: map[string][]string{}}
	return &DefaultAppointmentService{
		Users: repotest.NewUsers(
			models.User{ID: "d1", Role: models.RoleDoctor},
			models.User{ID: "c1", Role: models.RoleClient, Client: &models.ClientProfile{DoctorID: "d1"}},
			models.User{ID: "c2", Role: models.RoleClient, Client: &models.ClientProfile{DoctorID: "d2"}},
		),
		Appointments: repotest.NewAppointments(),
		Reminders:    sched,
		LeadTime:     30 * time.Minute,
		Events:       events,
		Analytics:    events,
	}, sched, events
}

func TestCreateAppointment(t *testing.T) {
	svc, sched, events := newService()
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	a, err := svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: start, Notes: " intake "})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, a.Status)
	assert.Equal(t, start.UTC().Add(30*time.Minute), a.EndsAt)
	assert.Equal(t, "intake", a.Notes)

	assert.Equal(t, tasks.ReminderTaskID(a.ID), a.ReminderID)
	assert.Equal(t, start.UTC().Add(-30*time.Minute), sched.scheduled[a.ReminderID])
	stored, err := svc.Appointments.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ReminderID, stored.ReminderID)

	assert.Equal(t, []string{models.EventAppointmentCreated}, events.events["c1"])
	assert.Equal(t, 1, events.invalidated)
}

func TestCreateAppointmentRejectsOverlap(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	start := time.Now().Add(48 * time.Hour)

	_, err := svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: start, DurationMinutes: 60})
	require.NoError(t, err)

	_, err = svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: start.Add(30 * time.Minute)})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	// Back to back is fine.
	_, err = svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: start.Add(time.Hour)})
	assert.NoError(t, err)
}

func TestCreateAppointmentValidation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		in     AppointmentInput
		status int
	}{
		{"no start", AppointmentInput{ClientID: "c1"}, http.StatusBadRequest},
		{"past", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(-time.Hour)}, http.StatusBadRequest},
		{"too long", AppointmentInput{ClientID: "c1", StartsAt: future, DurationMinutes: 600}, http.StatusBadRequest},
		{"negative", AppointmentInput{ClientID: "c1", StartsAt: future, DurationMinutes: -5}, http.StatusBadRequest},
		{"foreign client", AppointmentInput{ClientID: "c2", StartsAt: future}, http.StatusForbidden},
		{"unknown client", AppointmentInput{ClientID: "c9", StartsAt: future}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(ctx, "d1", tt.in)
			assert.Equal(t, tt.status, utils.StatusOf(err))
		})
	}
}

func TestReminderSkippedWhenTooSoon(t *testing.T) {
	svc, sched, _ := newService()
	a, err := svc.CreateAppointment(context.Background(), "d1", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(10 * time.Minute)})
	require.NoError(t, err)
	assert.Empty(t, a.ReminderID)
	assert.Empty(t, sched.scheduled)
}

func TestReminderFailureDoesNotFailCreate(t *testing.T) {
	svc, sched, _ := newService()
	sched.err = errors.New("redis down")
	a, err := svc.CreateAppointment(context.Background(), "d1", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(5 * time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, a.ReminderID)
}

func TestStatusTransitions(t *testing.T) {
	svc, sched, events := newService()
	ctx := context.Background()
	a, err := svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(3 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, client, a.ID, models.AppointmentCompleted)
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
	_, err = svc.UpdateStatus(ctx, doctor, a.ID, models.AppointmentScheduled)
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = svc.UpdateStatus(ctx, doctor, a.ID, "postponed")
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	done, err := svc.UpdateStatus(ctx, doctor, a.ID, models.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, done.Status)
	assert.Equal(t, []string{a.ReminderID}, sched.cancelled)
	assert.Contains(t, events.events["d1"], models.EventAppointmentUpdated)

	_, err = svc.Cancel(ctx, client, a.ID)
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	_, err = svc.UpdateStatus(ctx, doctor, "missing", models.AppointmentMissed)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestClientCancels(t *testing.T) {
	svc, sched, _ := newService()
	ctx := context.Background()
	a, err := svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(3 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, models.Viewer{UserID: "c2", Role: models.RoleClient}, a.ID)
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	got, err := svc.Cancel(ctx, client, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, got.Status)
	assert.Len(t, sched.cancelled, 1)
}

func TestListAppointmentsScopesToViewer(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, svc.Appointments.Create(ctx, &models.Appointment{ID: "a1", DoctorID: "d1", ClientID: "c1", StartsAt: now.Add(time.Hour), Status: models.AppointmentScheduled}))
	require.NoError(t, svc.Appointments.Create(ctx, &models.Appointment{ID: "a2", DoctorID: "d2", ClientID: "c2", StartsAt: now.Add(time.Hour), Status: models.AppointmentScheduled}))
	require.NoError(t, svc.Appointments.Create(ctx, &models.Appointment{ID: "a3", DoctorID: "d1", ClientID: "c1", StartsAt: now.Add(-time.Hour), Status: models.AppointmentMissed}))

	mine, err := svc.ListAppointments(ctx, doctor, models.AppointmentQuery{DoctorID: "d2"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a3", mine[0].ID)

	upcoming, err := svc.ListAppointments(ctx, client, models.AppointmentQuery{From: now, Status: models.AppointmentScheduled})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "a1", upcoming[0].ID)

	_, err = svc.ListAppointments(ctx, doctor, models.AppointmentQuery{ClientID: "c2"})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
	_, err = svc.ListAppointments(ctx, doctor, models.AppointmentQuery{From: now, To: now.Add(-time.Hour)})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestConcurrentTransitionsOnlyOneWins(t *testing.T) {
	svc, sched, _ := newService()
	ctx := context.Background()
	a, err := svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: time.Now().Add(3 * time.Hour)})
	require.NoError(t, err)

	inner := svc.Appointments.(*repotest.Appointments)
	svc.Appointments = newLockstep(inner, 2)

	var wg sync.WaitGroup
	results := make([]*models.Appointment, 2)
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.UpdateStatus(ctx, doctor, a.ID, models.AppointmentCompleted)
	}()
	go func() {
		defer wg.Done()
		results[1], errs[1] = svc.Cancel(ctx, client, a.ID)
	}()
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "both transitions succeeded")
			winner = i
			continue
		}
		assert.Equal(t, http.StatusConflict, utils.StatusOf(err))
	}
	require.NotEqual(t, -1, winner, "neither transition succeeded")

	stored, err := inner.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, results[winner].Status, stored.Status)
	assert.Len(t, sched.cancelled, 1)
}

func TestConcurrentBookingsOfSameSlot(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	start := time.Now().Add(6 * time.Hour).Truncate(time.Minute)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAppointment(ctx, "d1", AppointmentInput{ClientID: "c1", StartsAt: start.Add(time.Duration(i) * time.Minute)})
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, err := range errs {
		if err == nil {
			booked++
			continue
		}
		assert.Equal(t, http.StatusConflict, utils.StatusOf(err))
	}
	assert.Equal(t, 1, booked)

	count, err := svc.Appointments.Count(ctx, models.AppointmentQuery{DoctorID: "d1", Status: models.AppointmentScheduled})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
