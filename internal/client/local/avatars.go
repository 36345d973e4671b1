package local

import (
	"context"

	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/service"
)

// AvatarStore uploads profile images of the signed-in user.
type AvatarStore struct {
	avatars *service.Avatar
	user    CurrentUser
}

func NewAvatarStore(avatars *service.Avatar, user CurrentUser) *AvatarStore {
	return &AvatarStore{avatars: avatars, user: user}
}

// Upload replaces the avatar and links it from the profile.
func (s *AvatarStore) Upload(ctx context.Context, data []byte) error {
	current := s.user.Current()
	if current == nil {
		return model.ErrNoSession
	}
	return s.avatars.Upload(ctx, current.UserID, data)
}

// Download returns the avatar image and its content type.
func (s *AvatarStore) Download(ctx context.Context) ([]byte, string, error) {
	current := s.user.Current()
	if current == nil {
		return nil, "", model.ErrNoSession
	}
	return s.avatars.Download(ctx, current.UserID)
}
