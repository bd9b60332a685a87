package plan

import (
	"context"
	"time"

	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/analytics"
	"coachhub/services/realtime"
)

type PlanService interface {
	// Plans
	CreatePlan(ctx context.Context, doctorID, clientID string, in PlanInput) (*models.Plan, error)
	GetPlan(ctx context.Context, viewer models.Viewer, planID string) (*models.Plan, error)
	ListPlans(ctx context.Context, viewer models.Viewer, clientID string) ([]models.Plan, error)
	UpdatePlan(ctx context.Context, doctorID, planID string, in PlanInput) (*models.Plan, error)
	DeletePlan(ctx context.Context, doctorID, planID string) error

	// Meals
	AddMeal(ctx context.Context, doctorID, planID string, in MealInput) (*models.Meal, error)
	ListMeals(ctx context.Context, viewer models.Viewer, planID, dayID string) ([]models.Meal, error)
	GetMeal(ctx context.Context, viewer models.Viewer, mealID string) (*models.Meal, error)
	UpdateMeal(ctx context.Context, doctorID, mealID string, in MealInput) (*models.Meal, error)
	DeleteMeal(ctx context.Context, doctorID, mealID string) error
	CompleteMeal(ctx context.Context, viewer models.Viewer, mealID string, completed bool) (*models.Meal, error)
	SelectOption(ctx context.Context, viewer models.Viewer, mealID, category, option string, selected bool) (*models.Meal, error)
}

// DefaultPlanService is the production implementation.
type DefaultPlanService struct {
	Users     userRepo.UserRepository
	Plans     planRepo.PlanRepository
	Meals     planRepo.MealRepository
	Events    realtime.Publisher
	Analytics analytics.Invalidator
}

// PlanInput carries the editable fields of a plan.
type PlanInput struct {
	Format        models.PlanFormat `json:"format"`
	Name          string            `json:"name"`
	LocalizedName string            `json:"localizedName,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Description   string            `json:"description,omitempty"`
	StartDate     time.Time         `json:"startDate"`
	Notes         string            `json:"notes,omitempty"`
}

// MealInput carries the editable fields of a meal.
type MealInput struct {
	DayID      string                `json:"dayId,omitempty"`
	Name       string                `json:"name"`
	Completed  bool                  `json:"completed"`
	Categories []models.MealCategory `json:"categories"`
}
