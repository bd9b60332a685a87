package plan

import (
	"context"
	"errors"
	"strings"
	"time"

	"coachhub/models"
	"coachhub/utils"

	"github.com/google/uuid"
)

// validateMeal checks a meal against the format of its plan. Category names are unique
// within a meal and option names within a category, since options are addressed by name.
// Names are compared and stored trimmed; in.Categories is replaced by a trimmed copy.
func validateMeal(p *models.Plan, in *MealInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.DayID = strings.TrimSpace(in.DayID)
	if in.Name == "" {
		return utils.BadRequest("meal name is required")
	}
	switch p.Format {
	case models.PlanFormatDaily:
		if in.DayID == "" {
			return utils.BadRequest("meals of a daily plan need a day id")
		}
	case models.PlanFormatGeneral:
		if in.DayID != "" {
			return utils.BadRequest("meals of a general plan have no day id")
		}
	}

	trimmed := make([]models.MealCategory, len(in.Categories))
	cats := make(map[string]bool, len(in.Categories))
	for i, c := range in.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return utils.BadRequest("category name is required")
		}
		if cats[c.Name] {
			return utils.BadRequest("duplicate category " + c.Name)
		}
		cats[c.Name] = true

		options := make([]models.MealOption, len(c.Options))
		opts := make(map[string]bool, len(c.Options))
		for j, o := range c.Options {
			o.Name = strings.TrimSpace(o.Name)
			if o.Name == "" {
				return utils.BadRequest("option name is required")
			}
			if opts[o.Name] {
				return utils.BadRequest("duplicate option " + o.Name + " in " + c.Name)
			}
			opts[o.Name] = true
			options[j] = o
		}
		c.Options = options
		trimmed[i] = c
	}
	if in.Categories != nil {
		in.Categories = trimmed
	}
	return nil
}

func (s *DefaultPlanService) AddMeal(ctx context.Context, doctorID, planID string, in MealInput) (*models.Meal, error) {
	p, err := s.planFor(ctx, doctor(doctorID), planID)
	if err != nil {
		return nil, err
	}
	if err := validateMeal(p, &in); err != nil {
		return nil, err
	}

	m := &models.Meal{
		ID:         uuid.New().String(),
		PlanID:     p.ID,
		ClientID:   p.ClientID,
		DayID:      in.DayID,
		Name:       in.Name,
		Completed:  in.Completed,
		Categories: models.CloneCategories(in.Categories),
	}
	if err := s.Meals.Create(ctx, m); err != nil {
		return nil, utils.Internal("failed to add meal", err)
	}
	s.planChanged(ctx, p)
	return m, nil
}

func (s *DefaultPlanService) ListMeals(ctx context.Context, viewer models.Viewer, planID, dayID string) ([]models.Meal, error) {
	if _, err := s.planFor(ctx, viewer, planID); err != nil {
		return nil, err
	}
	meals, err := s.Meals.ListByPlan(ctx, planID, dayID)
	if err != nil {
		return nil, utils.Internal("failed to list meals", err)
	}
	return meals, nil
}

// mealFor loads a meal and its plan, checking viewer's access through the plan.
func (s *DefaultPlanService) mealFor(ctx context.Context, viewer models.Viewer, mealID string) (*models.Meal, *models.Plan, error) {
	m, err := s.Meals.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.NotFound("meal not found", nil)
		}
		return nil, nil, utils.Internal("failed to load meal", err)
	}
	p, err := s.planFor(ctx, viewer, m.PlanID)
	if err != nil {
		return nil, nil, err
	}
	return m, p, nil
}

func (s *DefaultPlanService) GetMeal(ctx context.Context, viewer models.Viewer, mealID string) (*models.Meal, error) {
	m, _, err := s.mealFor(ctx, viewer, mealID)
	return m, err
}

// UpdateMeal replaces a meal's name, day and categories. Completion state is kept.
func (s *DefaultPlanService) UpdateMeal(ctx context.Context, doctorID, mealID string, in MealInput) (*models.Meal, error) {
	m, p, err := s.mealFor(ctx, doctor(doctorID), mealID)
	if err != nil {
		return nil, err
	}
	if err := validateMeal(p, &in); err != nil {
		return nil, err
	}
	m.Name = in.Name
	m.DayID = in.DayID
	m.Completed = in.Completed
	m.Categories = models.CloneCategories(in.Categories)
	if err := s.Meals.Replace(ctx, m); err != nil {
		return nil, utils.Internal("failed to update meal", err)
	}
	s.planChanged(ctx, p)
	return m, nil
}

func (s *DefaultPlanService) DeleteMeal(ctx context.Context, doctorID, mealID string) error {
	_, p, err := s.mealFor(ctx, doctor(doctorID), mealID)
	if err != nil {
		return err
	}
	if err := s.Meals.Delete(ctx, mealID); err != nil {
		return utils.Internal("failed to delete meal", err)
	}
	s.planChanged(ctx, p)
	return nil
}

// CompleteMeal marks a meal done, or undone, which clears its completion time.
func (s *DefaultPlanService) CompleteMeal(ctx context.Context, viewer models.Viewer, mealID string, completed bool) (*models.Meal, error) {
	m, p, err := s.mealFor(ctx, viewer, mealID)
	if err != nil {
		return nil, err
	}

	var at *time.Time
	if completed {
		now := time.Now().UTC()
		at = &now
	}
	if err := s.Meals.SetCompletion(ctx, mealID, completed, at); err != nil {
		return nil, utils.Internal("failed to update meal", err)
	}
	m.IsCompleted = completed
	m.CompletedAt = at

	s.mealChanged(ctx, p, models.EventMealCompleted, m)
	return m, nil
}

// SelectOption sets the selected flag of one option, addressed by category and option name.
func (s *DefaultPlanService) SelectOption(ctx context.Context, viewer models.Viewer, mealID, category, option string, selected bool) (*models.Meal, error) {
	m, p, err := s.mealFor(ctx, viewer, mealID)
	if err != nil {
		return nil, err
	}
	opt := findOption(m, category, option)
	if opt == nil {
		return nil, utils.NotFound("option not found", nil)
	}

	if err := s.Meals.SetOptionSelected(ctx, mealID, category, option, selected); err != nil {
		return nil, utils.Internal("failed to update option", err)
	}
	opt.Selected = selected

	s.mealChanged(ctx, p, models.EventOptionSelected, m)
	return m, nil
}

func findOption(m *models.Meal, category, option string) *models.MealOption {
	for ci := range m.Categories {
		if m.Categories[ci].Name != category {
			continue
		}
		for oi := range m.Categories[ci].Options {
			if m.Categories[ci].Options[oi].Name == option {
				return &m.Categories[ci].Options[oi]
			}
		}
	}
	return nil
}

// mealChanged notifies the doctor of a client-side meal update.
func (s *DefaultPlanService) mealChanged(ctx context.Context, p *models.Plan, eventType string, m *models.Meal) {
	snapshot := m.Clone()
	s.publish(p.DoctorID, eventType, p.ClientID, snapshot)
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx, p.DoctorID)
	}
}
