package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"coachhub/models"
	"coachhub/services/access"
	"coachhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultAppointmentService) CreateAppointment(ctx context.Context, doctorID string, in AppointmentInput) (*models.Appointment, error) {
	now := time.Now().UTC()
	if in.StartsAt.IsZero() {
		return nil, utils.BadRequest("start time is required")
	}
	if in.StartsAt.Before(now) {
		return nil, utils.BadRequest("appointments cannot start in the past")
	}
	duration := time.Duration(in.DurationMinutes) * time.Minute
	switch {
	case in.DurationMinutes == 0:
		duration = defaultDuration
	case duration < 0 || duration > maxDuration:
		return nil, utils.BadRequest("duration must be between 1 and 480 minutes")
	}
	if _, err := access.Client(ctx, s.Users, models.Viewer{UserID: doctorID, Role: models.RoleDoctor}, in.ClientID); err != nil {
		return nil, err
	}

	start := in.StartsAt.UTC()
	end := start.Add(duration)
	a := &models.Appointment{
		ID:       uuid.New().String(),
		DoctorID: doctorID,
		ClientID: in.ClientID,
		StartsAt: start,
		EndsAt:   end,
		Status:   models.AppointmentScheduled,
		Notes:    strings.TrimSpace(in.Notes),
	}
	if err := s.Appointments.CreateIfFree(ctx, a); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.Conflict("the doctor already has an appointment in this slot")
		}
		return nil, utils.Internal("failed to create appointment", err)
	}
	s.scheduleReminder(ctx, a, now)

	s.publish(a, models.EventAppointmentCreated, a.ClientID)
	s.invalidate(ctx, doctorID)
	return a, nil
}

// scheduleReminder queues the reminder LeadTime before start. Failures are logged, not returned.
func (s *DefaultAppointmentService) scheduleReminder(ctx context.Context, a *models.Appointment, now time.Time) {
	if s.Reminders == nil {
		return
	}
	fireAt := a.StartsAt.Add(-s.LeadTime)
	if !fireAt.After(now) {
		return
	}
	id, err := s.Reminders.Schedule(ctx, models.ReminderPayload{
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		ClientID:      a.ClientID,
		StartsAt:      a.StartsAt,
	}, fireAt)
	if err != nil {
		utils.GetLogger().Error("Failed to schedule reminder", zap.String("appointmentID", a.ID), zap.Error(err))
		return
	}
	if err := s.Appointments.SetReminderID(ctx, a.ID, id); err != nil {
		utils.GetLogger().Warn("Failed to store reminder id", zap.String("appointmentID", a.ID), zap.Error(err))
		return
	}
	a.ReminderID = id
}

// ListAppointments scopes q to the viewer: doctors see their own schedule, clients their own appointments.
func (s *DefaultAppointmentService) ListAppointments(ctx context.Context, viewer models.Viewer, q models.AppointmentQuery) ([]models.Appointment, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, utils.BadRequest("unknown appointment status")
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, utils.BadRequest("to must not be before from")
	}
	switch viewer.Role {
	case models.RoleDoctor:
		q.DoctorID = viewer.UserID
		if q.ClientID != "" {
			if _, err := access.Client(ctx, s.Users, viewer, q.ClientID); err != nil {
				return nil, err
			}
		}
	case models.RoleClient:
		q.DoctorID = ""
		q.ClientID = viewer.UserID
	default:
		return nil, utils.Forbidden("unknown role")
	}

	appts, err := s.Appointments.List(ctx, q)
	if err != nil {
		return nil, utils.Internal("failed to list appointments", err)
	}
	return appts, nil
}

func (s *DefaultAppointmentService) load(ctx context.Context, viewer models.Viewer, id string) (*models.Appointment, error) {
	a, err := s.Appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NotFound("appointment not found", nil)
		}
		return nil, utils.Internal("failed to load appointment", err)
	}
	if (viewer.IsDoctor() && a.DoctorID != viewer.UserID) || (!viewer.IsDoctor() && a.ClientID != viewer.UserID) {
		return nil, utils.Forbidden("not your appointment")
	}
	return a, nil
}

// UpdateStatus moves a scheduled appointment to a terminal state. Only its doctor may do this.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, viewer models.Viewer, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !viewer.IsDoctor() {
		return nil, utils.Forbidden("only the doctor can change an appointment's status")
	}
	return s.transition(ctx, viewer, id, status)
}

// Cancel cancels a scheduled appointment on behalf of its doctor or client.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, viewer models.Viewer, id string) (*models.Appointment, error) {
	return s.transition(ctx, viewer, id, models.AppointmentCancelled)
}

func (s *DefaultAppointmentService) transition(ctx context.Context, viewer models.Viewer, id string, status models.AppointmentStatus) (*models.Appointment, error) {
	if !status.Valid() || status == models.AppointmentScheduled {
		return nil, utils.BadRequest("status must be completed, cancelled or missed")
	}
	a, err := s.load(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if a.Status.Terminal() {
		return nil, utils.Conflict("appointment is already " + string(a.Status))
	}

	if err := s.Appointments.UpdateStatus(ctx, id, models.AppointmentScheduled, status); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.Conflict("appointment is no longer scheduled")
		}
		return nil, utils.Internal("failed to update appointment", err)
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	utils.GetLogger().Info("Appointment status changed",
		zap.String("appointmentID", id), zap.String("status", string(status)), zap.String("by", viewer.UserID))

	if a.ReminderID != "" && s.Reminders != nil {
		if err := s.Reminders.Cancel(ctx, a.ReminderID); err != nil {
			utils.GetLogger().Warn("Failed to cancel reminder", zap.String("appointmentID", id), zap.Error(err))
		}
	}

	s.publish(a, models.EventAppointmentUpdated, a.ClientID)
	s.publish(a, models.EventAppointmentUpdated, a.DoctorID)
	s.invalidate(ctx, a.DoctorID)
	return a, nil
}

func (s *DefaultAppointmentService) publish(a *models.Appointment, eventType, userID string) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(userID, models.RealtimeEvent{
		Type:     eventType,
		ClientID: a.ClientID,
		Data:     *a,
		SentAt:   time.Now().UTC(),
	})
}

func (s *DefaultAppointmentService) invalidate(ctx context.Context, doctorID string) {
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx, doctorID)
	}
}
