package appointmentRepo

import (
	"context"
	"time"

	"coachhub/models"
)

// AppointmentRepository defines methods for appointment storage.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// List returns appointments matching q ordered by start time.
	List(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, error)
	Count(ctx context.Context, q models.AppointmentQuery) (int64, error)
	// HasOverlap reports whether the doctor has a scheduled appointment intersecting [start, end).
	HasOverlap(ctx context.Context, doctorID string, start, end time.Time) (bool, error)
	// CreateIfFree inserts appt unless the doctor already has an overlapping scheduled
	// appointment, in which case it returns an error wrapping utils.ErrConflict.
	CreateIfFree(ctx context.Context, appt *models.Appointment) error
	// UpdateStatus moves the appointment from one status to another. If it is no longer in from,
	// nothing is written and the error wraps utils.ErrConflict.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) error
	SetReminderID(ctx context.Context, id, reminderID string) error
}
