package remote

import (
	"context"
	"fmt"

	"github.com/dtroode/storefront/internal/api/proto"
)

// AvatarStore uploads and downloads the avatar of the signed-in user.
type AvatarStore struct {
	client proto.AvatarsClient
	parent *Client
}

func (a *AvatarStore) Upload(ctx context.Context, data []byte) error {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	if _, err := a.client.Upload(ctx, &proto.Avatar{Data: data}); err != nil {
		return fmt.Errorf("failed to upload avatar: %w", fromStatus(err))
	}
	return nil
}

func (a *AvatarStore) Download(ctx context.Context) ([]byte, string, error) {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	resp, err := a.client.Download(ctx, &proto.Empty{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download avatar: %w", fromStatus(err))
	}
	return resp.Data, resp.ContentType, nil
}

func (a *AvatarStore) Remove(ctx context.Context) error {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	if _, err := a.client.Remove(ctx, &proto.Empty{}); err != nil {
		return fmt.Errorf("failed to remove avatar: %w", fromStatus(err))
	}
	return nil
}
