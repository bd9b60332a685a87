package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coachhub/database/repository/repotest"
	"coachhub/models"
	"coachhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invalidations []string

func (i *invalidations) Invalidate(_ context.Context, doctorID string) { *i = append(*i, doctorID) }

func fixture() (*DefaultClientService, *invalidations) {
	last := time.Now().Add(-24 * time.Hour).UTC()
	inv := &invalidations{}
	return &DefaultClientService{
		Users: repotest.NewUsers(
			models.User{ID: "d1", Role: models.RoleDoctor, Name: "Doc", Email: "doc@x.io"},
			models.User{ID: "c1", Role: models.RoleClient, Name: "Bea", Email: "bea@x.io",
				Client: &models.ClientProfile{DoctorID: "d1", Status: models.ClientActive, Tags: []string{"keto"}, LastCheckIn: &last}},
			models.User{ID: "c2", Role: models.RoleClient, Name: "Adam", Email: "adam@x.io",
				Client: &models.ClientProfile{DoctorID: "d1", Status: models.ClientPaused}},
			models.User{ID: "c3", Role: models.RoleClient, Name: "Zed", Email: "zed@x.io",
				Client: &models.ClientProfile{DoctorID: "d2", Status: models.ClientActive}},
		),
		Plans: repotest.NewPlans(
			models.Plan{ID: "p1", ClientID: "c1", Name: "Cut", Format: models.PlanFormatDaily, StartDate: time.Now().AddDate(0, 0, -3)},
		),
		Appointments: repotest.NewAppointments(
			models.Appointment{ID: "a1", DoctorID: "d1", ClientID: "c1", Status: models.AppointmentScheduled,
				StartsAt: time.Now().Add(48 * time.Hour), EndsAt: time.Now().Add(49 * time.Hour)},
			models.Appointment{ID: "a2", DoctorID: "d1", ClientID: "c1", Status: models.AppointmentCancelled,
				StartsAt: time.Now().Add(72 * time.Hour), EndsAt: time.Now().Add(73 * time.Hour)},
		),
		CheckIns: repotest.NewCheckIns(
			models.CheckIn{ID: "k1", ClientID: "c1", DoctorID: "d1", Date: last, WeightKg: 70},
		),
		Analytics: inv,
	}, inv
}

func TestListClients(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	all, err := svc.ListClients(ctx, "d1", models.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adam", all[0].Name)
	assert.Equal(t, "Bea", all[1].Name)
	assert.Equal(t, []string{"keto"}, all[1].Tags)
	assert.NotNil(t, all[1].LastCheckIn)

	active, err := svc.ListClients(ctx, "d1", models.ClientFilter{Status: models.ClientActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c1", active[0].ID)

	searched, err := svc.ListClients(ctx, "d1", models.ClientFilter{Search: "  ADAM "})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "c2", searched[0].ID)

	_, err = svc.ListClients(ctx, "d1", models.ClientFilter{Sort: "shoe-size"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = svc.ListClients(ctx, "d1", models.ClientFilter{Status: "gone"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = svc.ListClients(ctx, "d1", models.ClientFilter{Limit: -1})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestGetClientProfile(t *testing.T) {
	svc, _ := fixture()
	ctx := context.Background()

	d, err := svc.GetClientProfile(ctx, models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Bea", d.Client.Name)
	require.NotNil(t, d.ActivePlan)
	assert.Equal(t, "p1", d.ActivePlan.ID)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, "a1", d.Upcoming[0].ID)
	require.NotNil(t, d.LatestCheckIn)
	assert.Equal(t, 70.0, d.LatestCheckIn.WeightKg)

	self, err := svc.GetClientProfile(ctx, models.Viewer{UserID: "c2", Role: models.RoleClient}, "c2")
	require.NoError(t, err)
	assert.Nil(t, self.ActivePlan)
	assert.Nil(t, self.LatestCheckIn)
	assert.Empty(t, self.Upcoming)

	_, err = svc.GetClientProfile(ctx, models.Viewer{UserID: "d1", Role: models.RoleDoctor}, "c3")
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
}

func TestCreateClient(t *testing.T) {
	svc, inv := fixture()
	ctx := context.Background()

	u, err := svc.CreateClient(ctx, "d1", CreateClientInput{
		Name: "Cleo", Email: "Cleo@X.io", Password: "longenough", Tags: []string{" vegan ", "", "vegan"}, HeightCm: 170,
	})
	require.NoError(t, err)
	assert.Equal(t, "cleo@x.io", u.Email)
	assert.Empty(t, u.PasswordHash)
	assert.Equal(t, "d1", u.Client.DoctorID)
	assert.Equal(t, models.ClientActive, u.Client.Status)
	assert.Equal(t, []string{"vegan"}, u.Client.Tags)
	assert.Equal(t, invalidations{"d1"}, *inv)

	_, err = svc.CreateClient(ctx, "d1", CreateClientInput{Name: "Dup", Email: "bea@x.io", Password: "longenough"})
	assert.Equal(t, http.StatusConflict, utils.StatusOf(err))

	_, err = svc.CreateClient(ctx, "d1", CreateClientInput{Name: "Neg", Email: "neg@x.io", Password: "longenough", HeightCm: -1})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestUpdateClient(t *testing.T) {
	svc, inv := fixture()
	ctx := context.Background()

	archived := models.ClientArchived
	goals := []string{"sleep 8h"}
	u, err := svc.UpdateClient(ctx, "d1", "c1", models.ClientPatch{Status: &archived, Goals: &goals})
	require.NoError(t, err)
	assert.Equal(t, models.ClientArchived, u.Client.Status)
	assert.Equal(t, goals, u.Client.Goals)
	assert.Equal(t, invalidations{"d1"}, *inv)

	_, err = svc.UpdateClient(ctx, "d2", "c1", models.ClientPatch{Status: &archived})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	_, err = svc.UpdateClient(ctx, "d1", "c1", models.ClientPatch{})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))

	bad := models.ClientStatus("deleted")
	_, err = svc.UpdateClient(ctx, "d1", "c1", models.ClientPatch{Status: &bad})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}
