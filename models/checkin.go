package models

import "time"

// CheckIn is a client's periodic self report.
type CheckIn struct {
	ID        string    `bson:"id" json:"id"`
	ClientID  string    `bson:"clientId" json:"clientId"`
	DoctorID  string    `bson:"doctorId" json:"doctorId"`
	Date      time.Time `bson:"date" json:"date"`
	WeightKg  float64   `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Mood      int       `bson:"mood,omitempty" json:"mood,omitempty"`
	Energy    int       `bson:"energy,omitempty" json:"energy,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
