package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	checkinRepo "coachhub/database/repository/checkin"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/access"
	"coachhub/services/analytics"
	"coachhub/services/notification"
	"coachhub/services/realtime"
	"coachhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckInService interface {
	SubmitCheckIn(ctx context.Context, clientID string, in CheckInInput) (*models.CheckIn, error)
	ListCheckIns(ctx context.Context, viewer models.Viewer, clientID string, from, to time.Time) ([]models.CheckIn, error)
}

// DefaultCheckInService is the production implementation.
type DefaultCheckInService struct {
	Users     userRepo.UserRepository
	CheckIns  checkinRepo.CheckInRepository
	Events    realtime.Publisher
	Notifier  notification.Notifier
	Analytics analytics.Invalidator
}

// CheckInInput is a client's self report. Zero values mean "not reported".
type CheckInInput struct {
	Date     *time.Time `json:"date,omitempty"`
	WeightKg float64    `json:"weightKg,omitempty"`
	Mood     int        `json:"mood,omitempty"`
	Energy   int        `json:"energy,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

func (in CheckInInput) validate(now time.Time) error {
	if in.WeightKg < 0 || in.WeightKg > 500 {
		return utils.BadRequest("weight must be between 0 and 500 kg")
	}
	if in.Mood < 0 || in.Mood > 5 {
		return utils.BadRequest("mood must be between 1 and 5")
	}
	if in.Energy < 0 || in.Energy > 5 {
		return utils.BadRequest("energy must be between 1 and 5")
	}
	if in.WeightKg == 0 && in.Mood == 0 && in.Energy == 0 && strings.TrimSpace(in.Notes) == "" {
		return utils.BadRequest("a check-in needs at least one value")
	}
	if in.Date != nil && in.Date.After(now.Add(time.Hour)) {
		return utils.BadRequest("check-in date cannot be in the future")
	}
	return nil
}

// SubmitCheckIn records a client's check-in and tells their doctor about it.
func (s *DefaultCheckInService) SubmitCheckIn(ctx context.Context, clientID string, in CheckInInput) (*models.CheckIn, error) {
	now := time.Now().UTC()
	if err := in.validate(now); err != nil {
		return nil, err
	}
	u, err := access.Client(ctx, s.Users, models.Viewer{UserID: clientID, Role: models.RoleClient}, clientID)
	if err != nil {
		return nil, err
	}
	doctorID := access.DoctorOf(u)

	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	c := &models.CheckIn{
		ID:       uuid.New().String(),
		ClientID: clientID,
		DoctorID: doctorID,
		Date:     date,
		WeightKg: in.WeightKg,
		Mood:     in.Mood,
		Energy:   in.Energy,
		Notes:    strings.TrimSpace(in.Notes),
	}
	if err := s.CheckIns.Create(ctx, c); err != nil {
		return nil, utils.Internal("failed to save check-in", err)
	}
	if err := s.Users.SetLastCheckIn(ctx, clientID, date); err != nil {
		utils.GetLogger().Warn("Failed to record last check-in", zap.String("clientID", clientID), zap.Error(err))
	}

	if s.Events != nil {
		s.Events.Publish(doctorID, models.RealtimeEvent{
			Type:     models.EventCheckInSubmitted,
			ClientID: clientID,
			Data:     *c,
			SentAt:   now,
		})
	}
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx, doctorID)
	}
	s.notifyDoctor(ctx, doctorID, u.Name, c)
	return c, nil
}

func (s *DefaultCheckInService) notifyDoctor(ctx context.Context, doctorID, clientName string, c *models.CheckIn) {
	if s.Notifier == nil || doctorID == "" {
		return
	}
	body := fmt.Sprintf("%s submitted a new check-in.", clientName)
	if c.WeightKg > 0 {
		body = fmt.Sprintf("%s checked in at %.1f kg.", clientName, c.WeightKg)
	}
	err := s.Notifier.Notify(ctx, doctorID, "New check-in", body, map[string]string{
		"type":      models.EventCheckInSubmitted,
		"clientId":  c.ClientID,
		"checkInId": c.ID,
	})
	if err != nil && !errors.Is(err, notification.ErrNoPushTarget) {
		utils.GetLogger().Warn("Failed to push check-in to doctor", zap.String("doctorID", doctorID), zap.Error(err))
	}
}

func (s *DefaultCheckInService) ListCheckIns(ctx context.Context, viewer models.Viewer, clientID string, from, to time.Time) ([]models.CheckIn, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, utils.BadRequest("to must not be before from")
	}
	if _, err := access.Client(ctx, s.Users, viewer, clientID); err != nil {
		return nil, err
	}
	list, err := s.CheckIns.List(ctx, clientID, from, to)
	if err != nil {
		return nil, utils.Internal("failed to list check-ins", err)
	}
	return list, nil
}
