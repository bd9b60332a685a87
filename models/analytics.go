package models

import "time"

// DoctorDashboard is the overview shown on a doctor's home screen.
type DoctorDashboard struct {
	DoctorID             string        `json:"doctorId"`
	TotalClients         int64         `json:"totalClients"`
	ActiveClients        int64         `json:"activeClients"`
	AppointmentsToday    []Appointment `json:"appointmentsToday"`
	UpcomingAppointments int64         `json:"upcomingAppointments"`
	CheckInsThisWeek     int64         `json:"checkInsThisWeek"`
	MealCompletionRate   float64       `json:"mealCompletionRate"`
	GeneratedAt          time.Time     `json:"generatedAt"`
}

// CompletionStats counts meals and completed meals.
type CompletionStats struct {
	Total     int64 `bson:"total" json:"total"`
	Completed int64 `bson:"completed" json:"completed"`
}

// Rate returns Completed/Total, or 0 when there are no meals.
func (s CompletionStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// WeightTrend summarises weight change across a window.
type WeightTrend struct {
	First float64 `json:"first"`
	Last  float64 `json:"last"`
	Delta float64 `json:"delta"`
}

// ClientAnalytics is the per-client analytics payload.
type ClientAnalytics struct {
	ClientID              string          `json:"clientId"`
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	Meals                 CompletionStats `json:"meals"`
	MealCompletionRate    float64         `json:"mealCompletionRate"`
	CheckIns              int             `json:"checkIns"`
	Weight                *WeightTrend    `json:"weight,omitempty"`
	AverageMood           float64         `json:"averageMood"`
	CompletedAppointments int             `json:"completedAppointments"`
	MissedAppointments    int             `json:"missedAppointments"`
}

// DayActivity holds one day of a weekly activity report.
type DayActivity struct {
	Date           string `json:"date"`
	Weekday        string `json:"weekday"`
	MealsCompleted int    `json:"mealsCompleted"`
	CheckIns       int    `json:"checkIns"`
}

// WeeklyActivity is a Monday-based, seven day activity report.
type WeeklyActivity struct {
	ClientID       string        `json:"clientId"`
	WeekStart      string        `json:"weekStart"`
	Days           []DayActivity `json:"days"`
	MealsCompleted int           `json:"mealsCompleted"`
	CheckIns       int           `json:"checkIns"`
}
