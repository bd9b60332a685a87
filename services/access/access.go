// Package access decides which clients a caller may see.
package access

import (
	"context"
	"errors"

	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/utils"
)

// Client loads clientID and checks that v may read it.
// A doctor sees only their own clients; a client sees only themselves.
func Client(ctx context.Context, users userRepo.UserRepository, v models.Viewer, clientID string) (*models.User, error) {
	if clientID == "" {
		return nil, utils.BadRequest("client id is required")
	}
	if v.Role == models.RoleClient && v.UserID != clientID {
		return nil, utils.Forbidden("clients can only access their own records")
	}

	u, err := users.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NotFound("client not found", nil)
		}
		return nil, utils.Internal("failed to load client", err)
	}
	if u.Role != models.RoleClient || u.Client == nil {
		return nil, utils.NotFound("client not found", nil)
	}

	switch v.Role {
	case models.RoleDoctor:
		if u.Client.DoctorID != v.UserID {
			return nil, utils.Forbidden("client belongs to another doctor")
		}
	case models.RoleClient:
		// checked above
	default:
		return nil, utils.Forbidden("unknown role")
	}
	return u, nil
}

// DoctorOf returns the ID of the doctor responsible for a loaded client.
func DoctorOf(u *models.User) string {
	if u == nil || u.Client == nil {
		return ""
	}
	return u.Client.DoctorID
}
