package access

import (
	"context"
	"net/http"
	"testing"

	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	userRepo.UserRepository
	users map[string]*models.User
}

func (s stubUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, utils.ErrNotFound
}

func TestClient(t *testing.T) {
	users := stubUsers{users: map[string]*models.User{
		"c1": {ID: "c1", Role: models.RoleClient, Client: &models.ClientProfile{DoctorID: "d1"}},
		"d2": {ID: "d2", Role: models.RoleDoctor},
	}}
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   models.Viewer
		clientID string
		status   int
	}{
		{"own doctor", models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "c1", 0},
		{"client self", models.Viewer{UserID: "c1", Role: models.RoleClient}, "c1", 0},
		{"other doctor", models.Viewer{UserID: "d9", Role: models.RoleDoctor}, "c1", http.StatusForbidden},
		{"other client", models.Viewer{UserID: "c2", Role: models.RoleClient}, "c1", http.StatusForbidden},
		{"missing", models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "nope", http.StatusNotFound},
		{"not a client", models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "d2", http.StatusNotFound},
		{"empty id", models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Client(ctx, users, tt.viewer, tt.clientID)
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "d1", DoctorOf(u))
				return
			}
			assert.Equal(t, tt.status, utils.StatusOf(err))
		})
	}
}
