package models

import "time"

// Realtime event types pushed over the socket.
const (
	EventMealCompleted      = "meal.completed"
	EventOptionSelected     = "meal.option_selected"
	EventCheckInSubmitted   = "checkin.submitted"
	EventAppointmentCreated = "appointment.created"
	EventAppointmentUpdated = "appointment.updated"
	EventPlanUpdated        = "plan.updated"
)

// RealtimeEvent is the envelope written to socket subscribers.
type RealtimeEvent struct {
	Type     string    `json:"type"`
	ClientID string    `json:"clientId,omitempty"`
	Data     any       `json:"data,omitempty"`
	SentAt   time.Time `json:"sentAt"`
}

// ReminderPayload is the body of an appointment reminder task.
type ReminderPayload struct {
	AppointmentID string    `json:"appointmentId"`
	DoctorID      string    `json:"doctorId"`
	ClientID      string    `json:"clientId"`
	StartsAt      time.Time `json:"startsAt"`
}
