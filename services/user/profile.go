package user

import (
	"context"
	"errors"
	"strings"

	"coachhub/models"
	"coachhub/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.NotFound("user not found", nil)
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return u, nil
}

func (s *DefaultUserService) update(ctx context.Context, userID string, set bson.M) error {
	if err := s.Repo.UpdateFields(ctx, userID, set); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NotFound("user not found", nil)
		}
		return utils.Internal("failed to update user", err)
	}
	return nil
}

func (s *DefaultUserService) UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error) {
	set := bson.M{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, utils.BadRequest("name cannot be empty")
		}
		set["name"] = name
	}
	if update.PhoneNumber != nil {
		set["phoneNumber"] = strings.TrimSpace(*update.PhoneNumber)
	}
	if update.Locale != nil {
		set["locale"] = *update.Locale
	}
	if len(set) == 0 {
		return nil, utils.BadRequest("nothing to update")
	}
	if err := s.update(ctx, userID, set); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return utils.BadRequest("fcm token is required")
	}
	return s.update(ctx, userID, bson.M{"fcmToken": token})
}

func (s *DefaultUserService) SetProfileImage(ctx context.Context, userID, url string) error {
	return s.update(ctx, userID, bson.M{"profileImage": url})
}
