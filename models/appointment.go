package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentMissed    AppointmentStatus = "missed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentMissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	return s != AppointmentScheduled
}

// Appointment is a consultation between a doctor and one of their clients.
type Appointment struct {
	ID         string            `bson:"id" json:"id"`
	DoctorID   string            `bson:"doctorId" json:"doctorId"`
	ClientID   string            `bson:"clientId" json:"clientId"`
	StartsAt   time.Time         `bson:"startsAt" json:"startsAt"`
	EndsAt     time.Time         `bson:"endsAt" json:"endsAt"`
	Status     AppointmentStatus `bson:"status" json:"status"`
	Notes      string            `bson:"notes,omitempty" json:"notes,omitempty"`
	ReminderID string            `bson:"reminderId,omitempty" json:"-"`
	CreatedAt  time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// AppointmentQuery narrows appointment listings. Zero values mean "any".
type AppointmentQuery struct {
	DoctorID string
	ClientID string
	From     time.Time
	To       time.Time
	Status   AppointmentStatus
}
