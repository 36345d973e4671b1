package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// AvatarScheme prefixes the profile avatar value of uploaded images.
const AvatarScheme = "avatar://"

// ErrUnsupportedImage is returned for uploads that are not images.
var ErrUnsupportedImage = errors.New("unsupported image type")

// Avatar stores profile images in object storage and links them from the
// owner's profile record.
type Avatar struct {
	storage model.Storage
	records *Record
	logger  *logger.Logger
}

func NewAvatar(storage model.Storage, records *Record, logger *logger.Logger) *Avatar {
	return &Avatar{storage: storage, records: records, logger: logger}
}

func avatarKey(userID uuid.UUID) string {
	return "avatars/" + userID.String()
}

// AvatarURL is the profile value pointing at the uploaded avatar of userID.
func AvatarURL(userID uuid.UUID) string {
	return AvatarScheme + userID.String()
}

// Upload replaces the avatar of userID and points users/{uid}/avatar at it.
func (s *Avatar) Upload(ctx context.Context, userID uuid.UUID, data []byte) error {
	if len(data) == 0 || len(data) > model.MaxAvatarSize {
		return fmt.Errorf("%w: avatar must be 1..%d bytes", model.ErrInvalidValue, model.MaxAvatarSize)
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	key := avatarKey(userID)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		s.logger.Error("Avatar service: failed to upload avatar",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.records.Set(ctx, userID, model.UsersPath(userID).Child("avatar"), AvatarURL(userID)); err != nil {
		return fmt.Errorf("failed to link avatar: %w", err)
	}

	s.logger.Info("Avatar service: avatar uploaded",
		"user_id", userID,
		"content_type", contentType,
		"size", len(data))

	return nil
}

// Download returns the avatar image of userID and its content type.
func (s *Avatar) Download(ctx context.Context, userID uuid.UUID) ([]byte, string, error) {
	key := avatarKey(userID)

	info, err := s.storage.Stat(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat avatar: %w", err)
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download avatar: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, model.MaxAvatarSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read avatar: %w", err)
	}

	return data, info.ContentType, nil
}

// Remove deletes the avatar of userID and clears the profile link.
func (s *Avatar) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := s.storage.Delete(ctx, avatarKey(userID)); err != nil {
		return fmt.Errorf("failed to delete avatar: %w", err)
	}
	return s.records.Remove(ctx, userID, model.UsersPath(userID).Child("avatar"))
}
