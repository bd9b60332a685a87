package analytics

import (
	"context"

	"coachhub/models"
)

// AnalyticsService builds doctor dashboards and per-client analytics.
type AnalyticsService interface {
	DoctorDashboard(ctx context.Context, doctorID string) (*models.DoctorDashboard, error)
	ClientAnalytics(ctx context.Context, viewer models.Viewer, clientID string, days int) (*models.ClientAnalytics, error)
	// Invalidate drops the cached dashboard of a doctor.
	Invalidate(ctx context.Context, doctorID string)
}

// Invalidator is implemented by anything that can drop a cached dashboard.
type Invalidator interface {
	Invalidate(ctx context.Context, doctorID string)
}

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365
)
