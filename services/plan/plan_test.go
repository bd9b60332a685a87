package plan

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"coachhub/database/repository/repotest"
	"coachhub/models"
	"coachhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	userID string
	event  models.RealtimeEvent
}

type recorder struct {
	mu          sync.Mutex
	events      []published
	invalidated []string
}

func (r *recorder) Publish(userID string, ev models.RealtimeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{userID, ev})
}

func (r *recorder) Invalidate(_ context.Context, doctorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, doctorID)
}

func (r *recorder) last() published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

var (
	doc     = models.Viewer{UserID: "d1", Role: models.RoleDoctor}
	cli     = models.Viewer{UserID: "c1", Role: models.RoleClient}
	other   = models.Viewer{UserID: "d2", Role: models.RoleDoctor}
	started = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
)

func breakfast() []models.MealCategory {
	return []models.MealCategory{
		{Name: "Protein", Options: []models.MealOption{{Name: "Eggs"}, {Name: "Greek yogurt"}}},
		{Name: "Carbs", Options: []models.MealOption{{Name: "Oats"}}},
	}
}

func newService() (*DefaultPlanService, *recorder) {
	rec := &recorder{}
	return &DefaultPlanService{
		Users: repotest.NewUsers(
			models.User{ID: "d1", Role: models.RoleDoctor},
			models.User{ID: "c1", Role: models.RoleClient, Client: &models.ClientProfile{DoctorID: "d1", Status: models.ClientActive}},
		),
		Plans:     repotest.NewPlans(),
		Meals:     repotest.NewMeals(),
		Events:    rec,
		Analytics: rec,
	}, rec
}

func createPlan(t *testing.T, svc *DefaultPlanService) *models.Plan {
	t.Helper()
	p, err := svc.CreatePlan(context.Background(), "d1", "c1", PlanInput{
		Format: models.PlanFormatDaily, Name: " Lean week ", StartDate: started, Tags: []string{},
	})
	require.NoError(t, err)
	return p
}

func TestCreatePlan(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()

	p := createPlan(t, svc)
	assert.Equal(t, "Lean week", p.Name)
	assert.Nil(t, p.Tags)
	assert.Equal(t, "d1", p.DoctorID)

	ev := rec.last()
	assert.Equal(t, "c1", ev.userID)
	assert.Equal(t, models.EventPlanUpdated, ev.event.Type)
	assert.Contains(t, rec.invalidated, "d1")

	tests := []struct {
		name string
		in   PlanInput
	}{
		{"bad format", PlanInput{Format: "weekly", Name: "x", StartDate: started}},
		{"no name", PlanInput{Format: models.PlanFormatGeneral, StartDate: started}},
		{"no start date", PlanInput{Format: models.PlanFormatGeneral, Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePlan(ctx, "d1", "c1", tt.in)
			assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
		})
	}

	_, err := svc.CreatePlan(ctx, "d2", "c1", PlanInput{Format: models.PlanFormatGeneral, Name: "x", StartDate: started})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
}

func TestPlanAccess(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	got, err := svc.GetPlan(ctx, cli, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetPlan(ctx, other, p.ID)
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
	_, err = svc.GetPlan(ctx, doc, "missing")
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	plans, err := svc.ListPlans(ctx, cli, "c1")
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestUpdateAndDeletePlanCascades(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	_, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Breakfast", Categories: breakfast()})
	require.NoError(t, err)

	updated, err := svc.UpdatePlan(ctx, "d1", p.ID, PlanInput{
		Format: models.PlanFormatDaily, Name: "Lean week 2", StartDate: started, Tags: []string{"cut", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cut"}, updated.Tags)

	_, err = svc.UpdatePlan(ctx, "d2", p.ID, PlanInput{Format: models.PlanFormatDaily, Name: "x", StartDate: started})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	require.NoError(t, svc.DeletePlan(ctx, "d1", p.ID))
	meals, err := svc.Meals.ListByPlan(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Empty(t, meals)
	_, err = svc.GetPlan(ctx, doc, p.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestAddMealValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	tests := []struct {
		name string
		in   MealInput
	}{
		{"no name", MealInput{DayID: "mon"}},
		{"daily without day", MealInput{Name: "Lunch"}},
		{"duplicate category", MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{{Name: "A"}, {Name: "A"}}}},
		{"duplicate option", MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{
			{Name: "A", Options: []models.MealOption{{Name: "x"}, {Name: "x"}}},
		}}},
		{"duplicate category after trimming", MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{{Name: "Protein"}, {Name: "Protein "}}}},
		{"duplicate option after trimming", MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{
			{Name: "A", Options: []models.MealOption{{Name: "Eggs"}, {Name: " Eggs"}}},
		}}},
		{"blank option", MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{
			{Name: "A", Options: []models.MealOption{{Name: " "}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddMeal(ctx, "d1", p.ID, tt.in)
			assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
		})
	}

	general, err := svc.CreatePlan(ctx, "d1", "c1", PlanInput{Format: models.PlanFormatGeneral, Name: "Any day", StartDate: started})
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, "d1", general.ID, MealInput{DayID: "mon", Name: "Snack"})
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	_, err = svc.AddMeal(ctx, "d1", general.ID, MealInput{Name: "Snack"})
	assert.NoError(t, err)
}

func TestMealNamesAreStoredTrimmed(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	m, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Lunch", Categories: []models.MealCategory{
		{Name: " Protein ", Options: []models.MealOption{{Name: "Eggs  "}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Protein", m.Categories[0].Name)
	assert.Equal(t, "Eggs", m.Categories[0].Options[0].Name)

	_, err = svc.SelectOption(ctx, cli, m.ID, "Protein", "Eggs", true)
	require.NoError(t, err)
}

func TestMealCategoriesAreNotShared(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	cats := breakfast()
	a, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Breakfast", Categories: cats})
	require.NoError(t, err)
	b, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "tue", Name: "Breakfast", Categories: cats})
	require.NoError(t, err)

	cats[0].Options[0].Selected = true
	a.Categories[0].Options[1].Selected = true

	_, err = svc.SelectOption(ctx, cli, b.ID, "Protein", "Eggs", true)
	require.NoError(t, err)

	storedA, err := svc.GetMeal(ctx, doc, a.ID)
	require.NoError(t, err)
	for _, o := range storedA.Categories[0].Options {
		assert.False(t, o.Selected, o.Name)
	}

	storedB, err := svc.GetMeal(ctx, doc, b.ID)
	require.NoError(t, err)
	assert.True(t, storedB.Categories[0].Options[0].Selected)
	assert.False(t, storedB.Categories[0].Options[1].Selected)
}

func TestListMealsByDay(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)

	for _, day := range []string{"mon", "mon", "tue"} {
		_, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: day, Name: "Meal " + day})
		require.NoError(t, err)
	}

	mon, err := svc.ListMeals(ctx, cli, p.ID, "mon")
	require.NoError(t, err)
	assert.Len(t, mon, 2)

	all, err := svc.ListMeals(ctx, cli, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListMeals(ctx, other, p.ID, "")
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
}

func TestCompleteMeal(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()
	p := createPlan(t, svc)
	m, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Dinner", Completed: true})
	require.NoError(t, err)
	rec.invalidated = nil

	done, err := svc.CompleteMeal(ctx, cli, m.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)

	ev := rec.last()
	assert.Equal(t, "d1", ev.userID)
	assert.Equal(t, models.EventMealCompleted, ev.event.Type)
	assert.Equal(t, "c1", ev.event.ClientID)
	assert.Equal(t, []string{"d1"}, rec.invalidated)

	undone, err := svc.CompleteMeal(ctx, cli, m.ID, false)
	require.NoError(t, err)
	assert.False(t, undone.IsCompleted)
	assert.Nil(t, undone.CompletedAt)

	stored, err := svc.GetMeal(ctx, cli, m.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted)
	assert.Nil(t, stored.CompletedAt)
	// The legacy flag is stored verbatim and never derived from isCompleted.
	assert.True(t, stored.Completed)

	_, err = svc.CompleteMeal(ctx, models.Viewer{UserID: "c9", Role: models.RoleClient}, m.ID, true)
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))
	_, err = svc.CompleteMeal(ctx, cli, "missing", true)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestSelectOptionUnknown(t *testing.T) {
	svc, rec := newService()
	ctx := context.Background()
	p := createPlan(t, svc)
	m, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Breakfast", Categories: breakfast()})
	require.NoError(t, err)

	_, err = svc.SelectOption(ctx, cli, m.ID, "Protein", "Bacon", true)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	_, err = svc.SelectOption(ctx, cli, m.ID, "Fats", "Eggs", true)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))

	got, err := svc.SelectOption(ctx, cli, m.ID, "Carbs", "Oats", true)
	require.NoError(t, err)
	assert.True(t, got.Categories[1].Options[0].Selected)
	assert.Equal(t, models.EventOptionSelected, rec.last().event.Type)
}

func TestUpdateAndDeleteMeal(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	p := createPlan(t, svc)
	m, err := svc.AddMeal(ctx, "d1", p.ID, MealInput{DayID: "mon", Name: "Lunch"})
	require.NoError(t, err)
	_, err = svc.CompleteMeal(ctx, cli, m.ID, true)
	require.NoError(t, err)

	updated, err := svc.UpdateMeal(ctx, "d1", m.ID, MealInput{DayID: "wed", Name: "Late lunch", Categories: breakfast()})
	require.NoError(t, err)
	assert.Equal(t, "wed", updated.DayID)
	assert.True(t, updated.IsCompleted)
	assert.Len(t, updated.Categories, 2)

	_, err = svc.UpdateMeal(ctx, "d2", m.ID, MealInput{DayID: "wed", Name: "x"})
	assert.Equal(t, http.StatusForbidden, utils.StatusOf(err))

	require.NoError(t, svc.DeleteMeal(ctx, "d1", m.ID))
	_, err = svc.GetMeal(ctx, doc, m.ID)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}
