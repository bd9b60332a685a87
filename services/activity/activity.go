package activity

import (
	"context"
	"time"

	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/access"
	"coachhub/utils"
)

type ActivityService interface {
	WeeklyActivity(ctx context.Context, viewer models.Viewer, clientID string, weekStart time.Time) (*models.WeeklyActivity, error)
}

// DefaultActivityService is the production implementation.
type DefaultActivityService struct {
	Users    userRepo.UserRepository
	Meals    planRepo.MealRepository
	CheckIns checkinRepo.CheckInRepository

	now func() time.Time
}

// WeeklyActivity buckets a client's completed meals and check-ins into the seven days
// of the week containing weekStart, Monday first. A zero weekStart means the current week.
func (s *DefaultActivityService) WeeklyActivity(ctx context.Context, viewer models.Viewer, clientID string, weekStart time.Time) (*models.WeeklyActivity, error) {
	if _, err := access.Client(ctx, s.Users, viewer, clientID); err != nil {
		return nil, err
	}
	if weekStart.IsZero() {
		weekStart = s.clock()
	}
	from := utils.WeekStart(weekStart)
	to := from.AddDate(0, 0, 7)

	meals, err := s.Meals.CompletedBetween(ctx, clientID, from, to)
	if err != nil {
		return nil, utils.Internal("failed to load completed meals", err)
	}
	checkIns, err := s.CheckIns.List(ctx, clientID, from, to)
	if err != nil {
		return nil, utils.Internal("failed to load check-ins", err)
	}

	out := &models.WeeklyActivity{
		ClientID:  clientID,
		WeekStart: from.Format(utils.DateLayout),
		Days:      make([]models.DayActivity, 7),
	}
	for i := range out.Days {
		day := from.AddDate(0, 0, i)
		out.Days[i] = models.DayActivity{Date: day.Format(utils.DateLayout), Weekday: day.Weekday().String()}
	}
	for _, m := range meals {
		if m.CompletedAt == nil {
			continue
		}
		if i, ok := dayIndex(from, *m.CompletedAt); ok {
			out.Days[i].MealsCompleted++
			out.MealsCompleted++
		}
	}
	for _, c := range checkIns {
		if i, ok := dayIndex(from, c.Date); ok {
			out.Days[i].CheckIns++
			out.CheckIns++
		}
	}
	return out, nil
}

func dayIndex(from, t time.Time) (int, bool) {
	i := int(t.UTC().Sub(from) / (24 * time.Hour))
	return i, i >= 0 && i < 7
}

func (s *DefaultActivityService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
