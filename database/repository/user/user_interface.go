package userRepo

import (
	"context"
	"time"

	"coachhub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for doctor and client account access.
type UserRepository interface {
	// Create inserts a new user record. A taken email yields utils.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateFields applies a $set document to the user.
	UpdateFields(ctx context.Context, id string, set bson.M) error
	// UpsertDevice records a device and its token hash, replacing any previous entry for it.
	UpsertDevice(ctx context.Context, userID string, device models.Device) error
	// RemoveDevice forgets a device, revoking its token.
	RemoveDevice(ctx context.Context, userID, deviceID string) error
	// GetDeviceTokenHash returns the stored token hash for a device, or "" if none.
	GetDeviceTokenHash(ctx context.Context, userID, deviceID string) (string, error)

	// ListClients returns the doctor's clients matching filter.
	ListClients(ctx context.Context, doctorID string, filter models.ClientFilter) ([]models.User, error)
	// ListClientIDs returns the IDs of the doctor's clients, optionally limited to one status.
	ListClientIDs(ctx context.Context, doctorID string, status models.ClientStatus) ([]string, error)
	// CountClients counts the doctor's clients, optionally limited to one status.
	CountClients(ctx context.Context, doctorID string, status models.ClientStatus) (int64, error)
	// SetLastCheckIn records the time of a client's latest check-in.
	SetLastCheckIn(ctx context.Context, clientID string, at time.Time) error
}
