package client

import (
	"context"
	"time"

	appointmentRepo "coachhub/database/repository/appointment"
	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/services/analytics"
)

// ClientService manages a doctor's client roster.
type ClientService interface {
	ListClients(ctx context.Context, doctorID string, filter models.ClientFilter) ([]models.ClientSummary, error)
	GetClientProfile(ctx context.Context, viewer models.Viewer, clientID string) (*models.ClientDetails, error)
	CreateClient(ctx context.Context, doctorID string, input CreateClientInput) (*models.User, error)
	UpdateClient(ctx context.Context, doctorID, clientID string, patch models.ClientPatch) (*models.User, error)
}

// DefaultClientService is the production implementation.
type DefaultClientService struct {
	Users        userRepo.UserRepository
	Plans        planRepo.PlanRepository
	Appointments appointmentRepo.AppointmentRepository
	CheckIns     checkinRepo.CheckInRepository
	Analytics    analytics.Invalidator
}

// CreateClientInput is what a doctor provides when enrolling a client.
type CreateClientInput struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Password       string     `json:"password"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Locale         string     `json:"locale,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Goals          []string   `json:"goals,omitempty"`
	HeightCm       float64    `json:"heightCm,omitempty"`
	StartWeightKg  float64    `json:"startWeightKg,omitempty"`
	TargetWeightKg float64    `json:"targetWeightKg,omitempty"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
}

// Sort keys accepted by ListClients.
var validSorts = map[string]bool{"": true, "name": true, "-name": true, "recent": true, "newest": true}

const (
	defaultPageSize = 50
	maxPageSize     = 200
	upcomingWindow  = 30 * 24 * time.Hour
)
