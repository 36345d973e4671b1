package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// AvatarService defines profile image operations.
type AvatarService interface {
	Upload(ctx context.Context, userID uuid.UUID, data []byte) error
	Download(ctx context.Context, userID uuid.UUID) ([]byte, string, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}

// Avatars handles gRPC endpoints for profile images.
type Avatars struct {
	avatarService  AvatarService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ proto.AvatarsServer = (*Avatars)(nil)

// NewAvatars creates a new Avatars handler.
func NewAvatars(avatarService AvatarService, contextManager model.ContextManager, logger *logger.Logger) *Avatars {
	return &Avatars{
		avatarService:  avatarService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Upload replaces the avatar of the caller.
func (h *Avatars) Upload(ctx context.Context, req *proto.Avatar) (*proto.Empty, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	h.logger.Debug("Avatars handler: processing upload request",
		"user_id", userID,
		"size", len(req.Data))

	if err := h.avatarService.Upload(ctx, userID, req.Data); err != nil {
		h.logger.Error("Avatars handler: upload failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &proto.Empty{}, nil
}

// Download returns the avatar of the caller.
func (h *Avatars) Download(ctx context.Context, _ *proto.Empty) (*proto.Avatar, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	data, contentType, err := h.avatarService.Download(ctx, userID)
	if err != nil {
		h.logger.Error("Avatars handler: download failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &proto.Avatar{Data: data, ContentType: contentType}, nil
}

// Remove deletes the avatar of the caller.
func (h *Avatars) Remove(ctx context.Context, _ *proto.Empty) (*proto.Empty, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	if err := h.avatarService.Remove(ctx, userID); err != nil {
		h.logger.Error("Avatars handler: remove failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &proto.Empty{}, nil
}
