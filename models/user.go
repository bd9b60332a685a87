package models

import "time"

// Role distinguishes the two kinds of accounts.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleClient Role = "client"
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RoleClient
}

// User is a doctor or client account.
type User struct {
	ID           string         `bson:"id" json:"id"`
	Role         Role           `bson:"role" json:"role"`
	Name         string         `bson:"name" json:"name"`
	Email        string         `bson:"email" json:"email"`
	PhoneNumber  string         `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash string         `bson:"passwordHash,omitempty" json:"-"`
	ProfileImage string         `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	FCMToken     string         `bson:"fcmToken,omitempty" json:"-"`
	Locale       string         `bson:"locale,omitempty" json:"locale,omitempty"`
	Devices      []Device       `bson:"devices,omitempty" json:"-"`
	Client       *ClientProfile `bson:"client,omitempty" json:"client,omitempty"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Device records a signed-in device and the hash of the token issued to it.
type Device struct {
	DeviceID   string    `bson:"deviceId" json:"deviceId"`
	DeviceName string    `bson:"deviceName" json:"deviceName"`
	LastLogin  time.Time `bson:"lastLogin" json:"lastLogin"`
	TokenHash  string    `bson:"tokenHash" json:"-"`
}

// UserUpdate holds the profile fields a user may change on themselves.
type UserUpdate struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Locale      *string `json:"locale"`
}

// Viewer identifies the authenticated caller of a service operation.
type Viewer struct {
	UserID string
	Role   Role
}

func (v Viewer) IsDoctor() bool { return v.Role == RoleDoctor }
