package appointment

import (
	"context"
	"time"

	appointmentRepo "coachhub/database/repository/appointment"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/analytics"
	"coachhub/services/realtime"
)

type AppointmentService interface {
	CreateAppointment(ctx context.Context, doctorID string, in AppointmentInput) (*models.Appointment, error)
	ListAppointments(ctx context.Context, viewer models.Viewer, q models.AppointmentQuery) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, viewer models.Viewer, id string, status models.AppointmentStatus) (*models.Appointment, error)
	Cancel(ctx context.Context, viewer models.Viewer, id string) (*models.Appointment, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Users        userRepo.UserRepository
	Appointments appointmentRepo.AppointmentRepository
	Reminders    ReminderScheduler
	LeadTime     time.Duration
	Events       realtime.Publisher
	Analytics    analytics.Invalidator
}

// AppointmentInput is the body of a new appointment.
type AppointmentInput struct {
	ClientID        string    `json:"clientId"`
	StartsAt        time.Time `json:"startsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Notes           string    `json:"notes,omitempty"`
}

const (
	defaultDuration = 30 * time.Minute
	maxDuration     = 8 * time.Hour
)
