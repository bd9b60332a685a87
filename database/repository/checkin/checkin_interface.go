package checkinRepo

import (
	"context"
	"time"

	"coachhub/models"
)

// CheckInRepository defines methods for client check-ins.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *models.CheckIn) error
	// List returns the client's check-ins in [from, to) ordered by date. Zero bounds are open.
	List(ctx context.Context, clientID string, from, to time.Time) ([]models.CheckIn, error)
	// Latest returns the client's most recent check-in.
	Latest(ctx context.Context, clientID string) (*models.CheckIn, error)
	// CountForDoctor counts check-ins of the doctor's clients in [from, to).
	CountForDoctor(ctx context.Context, doctorID string, from, to time.Time) (int64, error)
}
