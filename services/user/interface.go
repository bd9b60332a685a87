package user

import (
	"context"

	userRepo "coachhub/database/repository/user"
	"coachhub/models"
	"coachhub/utils"

	"github.com/go-redis/redis/v8"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest, device models.Device) (*AuthResponse, error)
	Login(ctx context.Context, email, password string, device models.Device) (*AuthResponse, error)
	Logout(ctx context.Context, userID, deviceID string) error

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	SetProfileImage(ctx context.Context, userID, url string) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	Tokens    *utils.TokenIssuer
	AuthCache *redis.Client
}

// RegisterRequest is the body of a registration.
type RegisterRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        models.Role `json:"role"`
	DoctorID    string      `json:"doctorId,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Locale      string      `json:"locale,omitempty"`
}

// AuthResponse contains the issued token and the signed-in user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

const minPasswordLength = 8
