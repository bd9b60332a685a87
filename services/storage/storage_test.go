package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"coachhub/utils"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	params uploader.UploadParams
	result *uploader.UploadResult
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = p
	return f.result, f.err
}

type images map[string]string

func (i images) SetProfileImage(_ context.Context, userID, url string) error {
	i[userID] = url
	return nil
}

func TestUploadAvatar(t *testing.T) {
	up := &fakeUploader{result: &uploader.UploadResult{PublicID: "avatars/u1", SecureURL: "https://res.cloudinary.com/x/avatars/u1.jpg"}}
	saved := images{}
	svc := &CloudinaryStorageService{uploader: up, users: saved}

	url, err := svc.UploadAvatar(context.Background(), "u1", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/x/avatars/u1.jpg", url)
	assert.Equal(t, url, saved["u1"])
	assert.Equal(t, "avatars", up.params.Folder)
	assert.Equal(t, "u1", up.params.PublicID)
	assert.Equal(t, api.Bool(true), up.params.Overwrite)
}

func TestUploadAvatarFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewStorageService(nil, images{}).UploadAvatar(ctx, "u1", strings.NewReader("img"))
	assert.Equal(t, http.StatusServiceUnavailable, utils.StatusOf(err))

	svc := &CloudinaryStorageService{uploader: &fakeUploader{err: errors.New("timeout")}, users: images{}}
	_, err = svc.UploadAvatar(ctx, "u1", strings.NewReader("img"))
	assert.Equal(t, http.StatusInternalServerError, utils.StatusOf(err))

	rejected := &uploader.UploadResult{}
	rejected.Error.Message = "Invalid image file"
	svc = &CloudinaryStorageService{uploader: &fakeUploader{result: rejected}, users: images{}}
	_, err = svc.UploadAvatar(ctx, "u1", strings.NewReader("img"))
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}
