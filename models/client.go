package models

import "time"

// ClientStatus is the coaching state of a client.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientPaused   ClientStatus = "paused"
	ClientArchived ClientStatus = "archived"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientPaused, ClientArchived:
		return true
	}
	return false
}

// ClientProfile is embedded in a client user.
type ClientProfile struct {
	DoctorID       string       `bson:"doctorId" json:"doctorId"`
	Status         ClientStatus `bson:"status" json:"status"`
	Tags           []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	Goals          []string     `bson:"goals,omitempty" json:"goals,omitempty"`
	HeightCm       float64      `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	StartWeightKg  float64      `bson:"startWeightKg,omitempty" json:"startWeightKg,omitempty"`
	TargetWeightKg float64      `bson:"targetWeightKg,omitempty" json:"targetWeightKg,omitempty"`
	BirthDate      *time.Time   `bson:"birthDate,omitempty" json:"birthDate,omitempty"`
	LastCheckIn    *time.Time   `bson:"lastCheckIn,omitempty" json:"lastCheckIn,omitempty"`
}

// ClientFilter narrows a doctor's client list.
type ClientFilter struct {
	Search string
	Status ClientStatus
	Tag    string
	Sort   string
	Limit  int64
	Offset int64
}

// ClientSummary is one row of the client list.
type ClientSummary struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profileImage,omitempty"`
	Status       ClientStatus `json:"status"`
	Tags         []string     `json:"tags,omitempty"`
	LastCheckIn  *time.Time   `json:"lastCheckIn,omitempty"`
}

// ClientDetails is the full client profile screen payload.
type ClientDetails struct {
	Client        User          `json:"client"`
	ActivePlan    *Plan         `json:"activePlan,omitempty"`
	Upcoming      []Appointment `json:"upcomingAppointments"`
	LatestCheckIn *CheckIn      `json:"latestCheckIn,omitempty"`
}

// ClientPatch holds the fields a doctor may change on a client.
type ClientPatch struct {
	Status         *ClientStatus `json:"status"`
	Tags           *[]string     `json:"tags"`
	Goals          *[]string     `json:"goals"`
	HeightCm       *float64      `json:"heightCm"`
	TargetWeightKg *float64      `json:"targetWeightKg"`
}
