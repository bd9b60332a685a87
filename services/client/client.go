package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"coachhub/models"
	"coachhub/services/access"
	"coachhub/services/user"
	"coachhub/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ListClients returns summaries of the doctor's clients that match filter.
func (s *DefaultClientService) ListClients(ctx context.Context, doctorID string, filter models.ClientFilter) ([]models.ClientSummary, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.BadRequest("unknown client status")
	}
	if !validSorts[filter.Sort] {
		return nil, utils.BadRequest("sort must be one of name, -name, recent, newest")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, utils.BadRequest("limit and offset must not be negative")
	}
	if filter.Limit == 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	users, err := s.Users.ListClients(ctx, doctorID, filter)
	if err != nil {
		return nil, utils.Internal("failed to list clients", err)
	}
	out := make([]models.ClientSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	return out, nil
}

func summarize(u models.User) models.ClientSummary {
	sum := models.ClientSummary{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
	}
	if u.Client != nil {
		sum.Status = u.Client.Status
		sum.Tags = u.Client.Tags
		sum.LastCheckIn = u.Client.LastCheckIn
	}
	return sum
}

// GetClientProfile assembles the client screen: account, active plan, upcoming appointments and latest check-in.
func (s *DefaultClientService) GetClientProfile(ctx context.Context, viewer models.Viewer, clientID string) (*models.ClientDetails, error) {
	u, err := access.Client(ctx, s.Users, viewer, clientID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	details := &models.ClientDetails{Client: *u}

	plan, err := s.Plans.Active(ctx, clientID, now)
	switch {
	case err == nil:
		details.ActivePlan = plan
	case !errors.Is(err, utils.ErrNotFound):
		return nil, utils.Internal("failed to load active plan", err)
	}

	details.Upcoming, err = s.Appointments.List(ctx, models.AppointmentQuery{
		ClientID: clientID,
		Status:   models.AppointmentScheduled,
		From:     now,
		To:       now.Add(upcomingWindow),
	})
	if err != nil {
		return nil, utils.Internal("failed to load appointments", err)
	}

	latest, err := s.CheckIns.Latest(ctx, clientID)
	switch {
	case err == nil:
		details.LatestCheckIn = latest
	case !errors.Is(err, utils.ErrNotFound):
		return nil, utils.Internal("failed to load latest check-in", err)
	}
	return details, nil
}

// CreateClient enrols a new client under doctorID.
func (s *DefaultClientService) CreateClient(ctx context.Context, doctorID string, in CreateClientInput) (*models.User, error) {
	in.Email = user.NormalizeEmail(in.Email)
	if err := user.ValidateCredentials(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	if in.HeightCm < 0 || in.StartWeightKg < 0 || in.TargetWeightKg < 0 {
		return nil, utils.BadRequest("body metrics must not be negative")
	}
	hash, err := user.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Role:         models.RoleClient,
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		Locale:       in.Locale,
		PasswordHash: hash,
		Client: &models.ClientProfile{
			DoctorID:       doctorID,
			Status:         models.ClientActive,
			Tags:           cleanList(in.Tags),
			Goals:          cleanList(in.Goals),
			HeightCm:       in.HeightCm,
			StartWeightKg:  in.StartWeightKg,
			TargetWeightKg: in.TargetWeightKg,
			BirthDate:      in.BirthDate,
		},
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.Conflict("an account with this email already exists")
		}
		return nil, utils.Internal("failed to create client", err)
	}
	utils.GetLogger().Info("Client enrolled", zap.String("doctorID", doctorID), zap.String("clientID", u.ID))
	s.invalidate(ctx, doctorID)

	u.PasswordHash = ""
	return u, nil
}

// UpdateClient applies a doctor's patch to one of their clients. Archiving is a status change.
func (s *DefaultClientService) UpdateClient(ctx context.Context, doctorID, clientID string, patch models.ClientPatch) (*models.User, error) {
	viewer := models.Viewer{UserID: doctorID, Role: models.RoleDoctor}
	if _, err := access.Client(ctx, s.Users, viewer, clientID); err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, utils.BadRequest("unknown client status")
		}
		set["client.status"] = *patch.Status
	}
	if patch.Tags != nil {
		set["client.tags"] = cleanList(*patch.Tags)
	}
	if patch.Goals != nil {
		set["client.goals"] = cleanList(*patch.Goals)
	}
	if patch.HeightCm != nil {
		if *patch.HeightCm < 0 {
			return nil, utils.BadRequest("height must not be negative")
		}
		set["client.heightCm"] = *patch.HeightCm
	}
	if patch.TargetWeightKg != nil {
		if *patch.TargetWeightKg < 0 {
			return nil, utils.BadRequest("target weight must not be negative")
		}
		set["client.targetWeightKg"] = *patch.TargetWeightKg
	}
	if len(set) == 0 {
		return nil, utils.BadRequest("nothing to update")
	}

	if err := s.Users.UpdateFields(ctx, clientID, set); err != nil {
		return nil, utils.Internal("failed to update client", err)
	}
	s.invalidate(ctx, doctorID)

	u, err := s.Users.GetByID(ctx, clientID)
	if err != nil {
		return nil, utils.Internal("failed to reload client", err)
	}
	return u, nil
}

func (s *DefaultClientService) invalidate(ctx context.Context, doctorID string) {
	if s.Analytics != nil {
		s.Analytics.Invalidate(ctx, doctorID)
	}
}

// cleanList trims entries, drops blanks and duplicates, and keeps order.
func cleanList(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := []string{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
