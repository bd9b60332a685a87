package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService stores user uploaded media.
type StorageService interface {
	// UploadAvatar stores a profile picture and saves its URL on the user.
	UploadAvatar(ctx context.Context, userID string, file io.Reader) (string, error)
}

// Uploader is the Cloudinary upload API.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// ProfileImageSetter records the avatar URL on the user.
type ProfileImageSetter interface {
	SetProfileImage(ctx context.Context, userID, url string) error
}

const avatarFolder = "avatars"
