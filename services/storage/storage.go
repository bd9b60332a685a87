package storage

import (
	"context"
	"fmt"
	"io"

	"coachhub/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStorageService uploads avatars to Cloudinary.
type CloudinaryStorageService struct {
	uploader Uploader
	users    ProfileImageSetter
}

// NewStorageService wraps cld. A nil cld yields a service that reports uploads as unavailable.
func NewStorageService(cld *cloudinary.Cloudinary, users ProfileImageSetter) *CloudinaryStorageService {
	s := &CloudinaryStorageService{users: users}
	if cld != nil {
		s.uploader = &cld.Upload
	}
	return s
}

func (s *CloudinaryStorageService) UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error) {
	if s.uploader == nil {
		return "", utils.Unavailable("media uploads are not configured")
	}
	result, err := s.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       avatarFolder,
		PublicID:     userID,
		Overwrite:    api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", utils.Internal("failed to upload avatar", fmt.Errorf("cloudinary: %w", err))
	}
	if result.Error.Message != "" {
		return "", utils.BadRequest("upload rejected: " + result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", utils.Internal("failed to upload avatar", fmt.Errorf("cloudinary: no secure url returned"))
	}

	if err := s.users.SetProfileImage(ctx, userID, result.SecureURL); err != nil {
		return "", err
	}
	utils.GetLogger().Info("Avatar uploaded", zap.String("userID", userID), zap.String("publicID", result.PublicID))
	return result.SecureURL, nil
}
