package planRepo

import (
	"context"
	"time"

	"coachhub/models"
)

// PlanRepository defines methods for meal plan headers.
type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	GetByID(ctx context.Context, id string) (*models.Plan, error)
	// ListByClient returns the client's plans, newest start date first.
	ListByClient(ctx context.Context, clientID string) ([]models.Plan, error)
	// Active returns the latest plan that has started at or before now.
	Active(ctx context.Context, clientID string, now time.Time) (*models.Plan, error)
	Replace(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id string) error
}

// MealStatsQuery selects the meals counted by CompletionStats. When From or To is set, a meal
// only counts as completed if its completedAt falls in [From, To).
type MealStatsQuery struct {
	ClientIDs []string
	PlanID    string
	From      time.Time
	To        time.Time
}

// MealRepository defines methods for the meals of a plan.
type MealRepository interface {
	Create(ctx context.Context, meal *models.Meal) error
	GetByID(ctx context.Context, id string) (*models.Meal, error)
	// ListByPlan returns a plan's meals in creation order, optionally only one day.
	ListByPlan(ctx context.Context, planID, dayID string) ([]models.Meal, error)
	Replace(ctx context.Context, meal *models.Meal) error
	Delete(ctx context.Context, id string) error
	DeleteByPlan(ctx context.Context, planID string) (int64, error)
	// SetCompletion updates the completion flag and timestamp.
	SetCompletion(ctx context.Context, id string, done bool, at *time.Time) error
	// SetOptionSelected flips one option, addressed by category and option name.
	SetOptionSelected(ctx context.Context, id, category, option string, selected bool) error
	// CompletionStats counts total and completed meals.
	CompletionStats(ctx context.Context, q MealStatsQuery) (models.CompletionStats, error)
	// CompletedBetween returns the client's meals completed in [from, to).
	CompletedBetween(ctx context.Context, clientID string, from, to time.Time) ([]models.Meal, error)
}
