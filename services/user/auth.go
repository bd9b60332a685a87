package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"coachhub/models"
	"coachhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks the name, email and password of a new account.
func ValidateCredentials(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return utils.BadRequest("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.BadRequest("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return utils.BadRequest("password must be at least 8 characters")
	}
	return nil
}

// HashPassword bcrypt-hashes a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", utils.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *DefaultUserService) Register(ctx context.Context, req RegisterRequest, device models.Device) (*AuthResponse, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := ValidateCredentials(req.Name, req.Email, req.Password); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = models.RoleDoctor
	}
	if !req.Role.Valid() {
		return nil, utils.BadRequest("role must be doctor or client")
	}

	u := &models.User{
		ID:          uuid.New().String(),
		Role:        req.Role,
		Name:        strings.TrimSpace(req.Name),
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Locale:      req.Locale,
	}
	if req.Role == models.RoleClient {
		if req.DoctorID == "" {
			return nil, utils.BadRequest("clients must register with a doctor id")
		}
		doc, err := s.Repo.GetByID(ctx, req.DoctorID)
		if err != nil || doc.Role != models.RoleDoctor {
			return nil, utils.BadRequest("unknown doctor")
		}
		u.Client = &models.ClientProfile{DoctorID: doc.ID, Status: models.ClientActive}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.Conflict("an account with this email already exists")
		}
		return nil, utils.Internal("failed to create account", err)
	}
	utils.GetLogger().Info("Account registered", zap.String("userID", u.ID), zap.String("role", string(u.Role)))

	return s.issue(ctx, u, device)
}

func (s *DefaultUserService) Login(ctx context.Context, email, password string, device models.Device) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.Unauthorized("invalid email or password")
		}
		return nil, utils.Internal("authentication failed, please try again", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, utils.Unauthorized("invalid email or password")
	}
	return s.issue(ctx, u, device)
}

// issue signs a token for the device, stores its hash and primes the auth cache.
func (s *DefaultUserService) issue(ctx context.Context, u *models.User, device models.Device) (*AuthResponse, error) {
	if device.DeviceID == "" {
		device.DeviceID = uuid.New().String()
	}
	token, err := s.Tokens.GenerateToken(utils.TokenClaims{UserID: u.ID, Role: string(u.Role), DeviceID: device.DeviceID})
	if err != nil {
		return nil, utils.Internal("failed to issue token", err)
	}

	device.TokenHash = utils.HashToken(token)
	device.LastLogin = time.Now().UTC()
	if err := s.Repo.UpsertDevice(ctx, u.ID, device); err != nil {
		return nil, utils.Internal("failed to register device", err)
	}

	if s.AuthCache != nil {
		key := utils.AuthCacheKey(u.ID, device.DeviceID)
		if err := s.AuthCache.Set(ctx, key, device.TokenHash, utils.AuthCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("Failed to cache token hash", zap.String("userID", u.ID), zap.Error(err))
		}
	}

	u.PasswordHash = ""
	return &AuthResponse{Token: token, User: u}, nil
}

// Logout revokes the token of one device.
func (s *DefaultUserService) Logout(ctx context.Context, userID, deviceID string) error {
	if err := s.Repo.RemoveDevice(ctx, userID, deviceID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NotFound("user not found", nil)
		}
		return utils.Internal("failed to revoke device", err)
	}
	if s.AuthCache != nil {
		if err := s.AuthCache.Del(ctx, utils.AuthCacheKey(userID, deviceID)).Err(); err != nil {
			utils.GetLogger().Warn("Failed to drop cached token", zap.String("userID", userID), zap.Error(err))
		}
	}
	return nil
}
