package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	appointmentRepo "coachhub/database/repository/appointment"
	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/access"
	"coachhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultAnalyticsService computes analytics from the repositories and caches dashboards in Redis.
type DefaultAnalyticsService struct {
	Users        userRepo.UserRepository
	Plans        planRepo.PlanRepository
	Meals        planRepo.MealRepository
	Appointments appointmentRepo.AppointmentRepository
	CheckIns     checkinRepo.CheckInRepository
	Cache        *redis.Client
	CacheTTL     time.Duration

	now func() time.Time
}

func (s *DefaultAnalyticsService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func dashboardKey(doctorID string) string {
	return utils.AnalyticsCachePrefix + doctorID
}

// DoctorDashboard returns the doctor's overview, served from cache when fresh.
func (s *DefaultAnalyticsService) DoctorDashboard(ctx context.Context, doctorID string) (*models.DoctorDashboard, error) {
	if cached := s.cached(ctx, doctorID); cached != nil {
		return cached, nil
	}

	now := s.clock()
	today := utils.StartOfDay(now)
	week := utils.WeekStart(now)
	d := &models.DoctorDashboard{DoctorID: doctorID, GeneratedAt: now}

	var err error
	if d.TotalClients, err = s.Users.CountClients(ctx, doctorID, ""); err != nil {
		return nil, utils.Internal("failed to count clients", err)
	}
	if d.ActiveClients, err = s.Users.CountClients(ctx, doctorID, models.ClientActive); err != nil {
		return nil, utils.Internal("failed to count active clients", err)
	}
	todays, err := s.Appointments.List(ctx, models.AppointmentQuery{
		DoctorID: doctorID, From: today, To: today.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, utils.Internal("failed to load today's appointments", err)
	}
	d.AppointmentsToday = make([]models.Appointment, 0, len(todays))
	for _, a := range todays {
		if a.Status != models.AppointmentCancelled {
			d.AppointmentsToday = append(d.AppointmentsToday, a)
		}
	}
	if d.UpcomingAppointments, err = s.Appointments.Count(ctx, models.AppointmentQuery{
		DoctorID: doctorID, Status: models.AppointmentScheduled, From: now, To: now.AddDate(0, 0, 7),
	}); err != nil {
		return nil, utils.Internal("failed to count upcoming appointments", err)
	}
	if d.CheckInsThisWeek, err = s.CheckIns.CountForDoctor(ctx, doctorID, week, week.AddDate(0, 0, 7)); err != nil {
		return nil, utils.Internal("failed to count check-ins", err)
	}

	ids, err := s.Users.ListClientIDs(ctx, doctorID, "")
	if err != nil {
		return nil, utils.Internal("failed to list clients", err)
	}
	if len(ids) > 0 {
		stats, err := s.Meals.CompletionStats(ctx, planRepo.MealStatsQuery{ClientIDs: ids})
		if err != nil {
			return nil, utils.Internal("failed to compute meal completion", err)
		}
		d.MealCompletionRate = stats.Rate()
	}

	s.store(ctx, d)
	return d, nil
}

func (s *DefaultAnalyticsService) cached(ctx context.Context, doctorID string) *models.DoctorDashboard {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, dashboardKey(doctorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("Dashboard cache read failed", zap.String("doctorID", doctorID), zap.Error(err))
		}
		return nil
	}
	var d models.DoctorDashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		utils.GetLogger().Warn("Discarding corrupt dashboard cache entry", zap.String("doctorID", doctorID), zap.Error(err))
		return nil
	}
	return &d
}

func (s *DefaultAnalyticsService) store(ctx context.Context, d *models.DoctorDashboard) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, dashboardKey(d.DoctorID), raw, s.CacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Dashboard cache write failed", zap.String("doctorID", d.DoctorID), zap.Error(err))
	}
}

// Invalidate drops the cached dashboard of doctorID.
func (s *DefaultAnalyticsService) Invalidate(ctx context.Context, doctorID string) {
	if s.Cache == nil || doctorID == "" {
		return
	}
	if err := s.Cache.Del(ctx, dashboardKey(doctorID)).Err(); err != nil {
		utils.GetLogger().Warn("Dashboard cache invalidation failed", zap.String("doctorID", doctorID), zap.Error(err))
	}
}

// ClientAnalytics summarises a client's progress over the last days days.
func (s *DefaultAnalyticsService) ClientAnalytics(ctx context.Context, viewer models.Viewer, clientID string, days int) (*models.ClientAnalytics, error) {
	if days == 0 {
		days = DefaultWindowDays
	}
	if days < 0 || days > MaxWindowDays {
		return nil, utils.BadRequest("days must be between 1 and 365")
	}
	if _, err := access.Client(ctx, s.Users, viewer, clientID); err != nil {
		return nil, err
	}

	to := s.clock()
	from := to.AddDate(0, 0, -days)
	out := &models.ClientAnalytics{ClientID: clientID, From: from, To: to}

	plan, err := s.Plans.Active(ctx, clientID, to)
	switch {
	case err == nil:
		if out.Meals, err = s.Meals.CompletionStats(ctx, planRepo.MealStatsQuery{PlanID: plan.ID, From: from, To: to}); err != nil {
			return nil, utils.Internal("failed to compute meal completion", err)
		}
		out.MealCompletionRate = out.Meals.Rate()
	case errors.Is(err, utils.ErrNotFound):
	default:
		return nil, utils.Internal("failed to load active plan", err)
	}

	checkIns, err := s.CheckIns.List(ctx, clientID, from, to)
	if err != nil {
		return nil, utils.Internal("failed to load check-ins", err)
	}
	out.CheckIns = len(checkIns)
	out.Weight = weightTrend(checkIns)
	out.AverageMood = averageMood(checkIns)

	appts, err := s.Appointments.List(ctx, models.AppointmentQuery{ClientID: clientID, From: from, To: to})
	if err != nil {
		return nil, utils.Internal("failed to load appointments", err)
	}
	for _, a := range appts {
		switch a.Status {
		case models.AppointmentCompleted:
			out.CompletedAppointments++
		case models.AppointmentMissed:
			out.MissedAppointments++
		}
	}
	return out, nil
}

// weightTrend expects check-ins ordered by date and ignores those without a weight.
func weightTrend(checkIns []models.CheckIn) *models.WeightTrend {
	var trend *models.WeightTrend
	for _, c := range checkIns {
		if c.WeightKg <= 0 {
			continue
		}
		if trend == nil {
			trend = &models.WeightTrend{First: c.WeightKg}
		}
		trend.Last = c.WeightKg
	}
	if trend != nil {
		trend.Delta = trend.Last - trend.First
	}
	return trend
}

func averageMood(checkIns []models.CheckIn) float64 {
	sum, n := 0, 0
	for _, c := range checkIns {
		if c.Mood > 0 {
			sum += c.Mood
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
