package plan

import (
	"context"
	"errors"
	"strings"
	"time"

	"coachhub/models"
	"coachhub/services/access"
	"coachhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (in *PlanInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if !in.Format.Valid() {
		return utils.BadRequest("format must be daily or general")
	}
	if in.Name == "" {
		return utils.BadRequest("plan name is required")
	}
	if in.StartDate.IsZero() {
		return utils.BadRequest("start date is required")
	}
	in.Tags = normalizeTags(in.Tags)
	return nil
}

// normalizeTags drops blank tags and returns nil for an empty list so it is stored as absent.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *DefaultPlanService) CreatePlan(ctx context.Context, doctorID, clientID string, in PlanInput) (*models.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := access.Client(ctx, s.Users, models.Viewer{UserID: doctorID, Role: models.RoleDoctor}, clientID); err != nil {
		return nil, err
	}

	p := &models.Plan{
		ID:       uuid.New().String(),
		ClientID: clientID,
		DoctorID: doctorID,
	}
	applyPlanInput(p, in)
	if err := s.Plans.Create(ctx, p); err != nil {
		return nil, utils.Internal("failed to create plan", err)
	}
	utils.GetLogger().Info("Plan created", zap.String("planID", p.ID), zap.String("clientID", clientID))
	s.planChanged(ctx, p)
	return p, nil
}

func applyPlanInput(p *models.Plan, in PlanInput) {
	p.Format = in.Format
	p.Name = in.Name
	p.LocalizedName = in.LocalizedName
	p.Tags = in.Tags
	p.Description = in.Description
	p.StartDate = in.StartDate.UTC()
	p.Notes = in.Notes
}

// planFor loads a plan and checks that viewer owns it as its doctor or client.
func (s *DefaultPlanService) planFor(ctx context.Context, viewer models.Viewer, planID string) (*models.Plan, error) {
	p, err := s.Plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NotFound("plan not found", nil)
		}
		return nil, utils.Internal("failed to load plan", err)
	}
	switch viewer.Role {
	case models.RoleDoctor:
		if p.DoctorID != viewer.UserID {
			return nil, utils.Forbidden("plan belongs to another doctor")
		}
	case models.RoleClient:
		if p.ClientID != viewer.UserID {
			return nil, utils.Forbidden("plan belongs to another client")
		}
	default:
		return nil, utils.Forbidden("unknown role")
	}
	return p, nil
}

func doctor(id string) models.Viewer { return models.Viewer{UserID: id, Role: models.RoleDoctor} }

func (s *DefaultPlanService) GetPlan(ctx context.Context, viewer models.Viewer, planID string) (*models.Plan, error) {
	return s.planFor(ctx, viewer, planID)
}

func (s *DefaultPlanService) ListPlans(ctx context.Context, viewer models.Viewer, clientID string) ([]models.Plan, error) {
	if _, err := access.Client(ctx, s.Users, viewer, clientID); err != nil {
		return nil, err
	}
	plans, err := s.Plans.ListByClient(ctx, clientID)
	if err != nil {
		return nil, utils.Internal("failed to list plans", err)
	}
	return plans, nil
}

func (s *DefaultPlanService) UpdatePlan(ctx context.Context, doctorID, planID string, in PlanInput) (*models.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.planFor(ctx, doctor(doctorID), planID)
	if err != nil {
		return nil, err
	}
	applyPlanInput(p, in)
	if err := s.Plans.Replace(ctx, p); err != nil {
		return nil, utils.Internal("failed to update plan", err)
	}
	s.planChanged(ctx, p)
	return p, nil
}

// DeletePlan removes a plan together with its meals.
func (s *DefaultPlanService) DeletePlan(ctx context.Context, doctorID, planID string) error {
	p, err := s.planFor(ctx, doctor(doctorID), planID)
	if err != nil {
		return err
	}
	n, err := s.Meals.DeleteByPlan(ctx, planID)
	if err != nil {
		return utils.Internal("failed to delete plan meals", err)
	}
	if err := s.Plans.Delete(ctx, planID); err != nil {
		return utils.Internal("failed to delete plan", err)
	}
	utils.GetLogger().Info("Plan deleted", zap.String("planID", planID), zap.Int64("meals", n))
	s.planChanged(ctx, p)
	return nil
}

// planChanged tells the client about the edit and drops the doctor's cached dashboard.
func (s *DefaultPlanService) planChanged(ctx context.Context, p *models.Plan) {
	s.publish(p.ClientID, models.EventPlanUpdated, p.ClientID, map[string]string{"planId": p.ID})
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx, p.DoctorID)
	}
}

func (s *DefaultPlanService) publish(userID, eventType, clientID string, data any) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(userID, models.RealtimeEvent{
		Type:     eventType,
		ClientID: clientID,
		Data:     data,
		SentAt:   time.Now().UTC(),
	})
}
