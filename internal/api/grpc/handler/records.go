package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// RecordService defines the record store operations of a signed-in user.
type RecordService interface {
	Get(ctx context.Context, userID uuid.UUID, path model.Path) (model.Snapshot, error)
	Set(ctx context.Context, userID uuid.UUID, path model.Path, value any) error
	Update(ctx context.Context, userID uuid.UUID, path model.Path, fields map[string]any) error
	Push(ctx context.Context, userID uuid.UUID, path model.Path, value any) (string, error)
	Remove(ctx context.Context, userID uuid.UUID, path model.Path) error
	Watch(ctx context.Context, userID uuid.UUID, path model.Path) (<-chan model.Snapshot, error)
}

// Records handles gRPC endpoints for the record store.
type Records struct {
	recordService  RecordService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ proto.RecordsServer = (*Records)(nil)

// NewRecords creates a new Records handler.
func NewRecords(recordService RecordService, contextManager model.ContextManager, logger *logger.Logger) *Records {
	return &Records{
		recordService:  recordService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Get returns the value at a path.
func (h *Records) Get(ctx context.Context, req *proto.PathRequest) (*proto.Snapshot, error) {
	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	snapshot, err := h.recordService.Get(ctx, userID, path)
	if err != nil {
		h.logFailure("get", userID, path, err)
		return nil, handleError(err)
	}

	return toProtoSnapshot(snapshot), nil
}

// Set replaces the value at a path.
func (h *Records) Set(ctx context.Context, req *proto.SetRequest) (*proto.Empty, error) {
	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	if err := h.recordService.Set(ctx, userID, path, req.Value); err != nil {
		h.logFailure("set", userID, path, err)
		return nil, handleError(err)
	}

	return &proto.Empty{}, nil
}

// Update writes the given children of a path.
func (h *Records) Update(ctx context.Context, req *proto.UpdateRequest) (*proto.Empty, error) {
	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	if err := h.recordService.Update(ctx, userID, path, req.Fields); err != nil {
		h.logFailure("update", userID, path, err)
		return nil, handleError(err)
	}

	return &proto.Empty{}, nil
}

// Push appends a child with a generated key.
func (h *Records) Push(ctx context.Context, req *proto.SetRequest) (*proto.PushResponse, error) {
	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	key, err := h.recordService.Push(ctx, userID, path, req.Value)
	if err != nil {
		h.logFailure("push", userID, path, err)
		return nil, handleError(err)
	}

	h.logger.Debug("Records handler: child pushed",
		"user_id", userID,
		"path", path,
		"key", key)

	return &proto.PushResponse{Key: key}, nil
}

// Remove deletes the value at a path.
func (h *Records) Remove(ctx context.Context, req *proto.PathRequest) (*proto.Empty, error) {
	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return nil, err
	}

	if err := h.recordService.Remove(ctx, userID, path); err != nil {
		h.logFailure("remove", userID, path, err)
		return nil, handleError(err)
	}

	return &proto.Empty{}, nil
}

// Watch streams the value at a path until the client goes away.
func (h *Records) Watch(req *proto.PathRequest, stream grpc.ServerStreamingServer[proto.Snapshot]) error {
	ctx := stream.Context()

	userID, path, err := h.target(ctx, req.Path)
	if err != nil {
		return err
	}

	snapshots, err := h.recordService.Watch(ctx, userID, path)
	if err != nil {
		h.logFailure("watch", userID, path, err)
		return handleError(err)
	}

	h.logger.Debug("Records handler: watch opened",
		"user_id", userID,
		"path", path)

	for snapshot := range snapshots {
		if err := stream.Send(toProtoSnapshot(snapshot)); err != nil {
			h.logger.Debug("Records handler: watch send failed",
				"user_id", userID,
				"path", path,
				"error", err.Error())
			return err
		}
	}

	h.logger.Debug("Records handler: watch closed",
		"user_id", userID,
		"path", path)

	return status.FromContextError(ctx.Err()).Err()
}

func (h *Records) target(ctx context.Context, rawPath string) (uuid.UUID, model.Path, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", status.Error(codes.Unauthenticated, "user not authenticated")
	}

	path, err := model.ParsePath(rawPath)
	if err != nil {
		return uuid.Nil, "", status.Error(codes.InvalidArgument, err.Error())
	}

	return userID, path, nil
}

func (h *Records) logFailure(op string, userID uuid.UUID, path model.Path, err error) {
	h.logger.Error("Records handler: "+op+" failed",
		"user_id", userID,
		"path", path,
		"error", err.Error())
}

func toProtoSnapshot(s model.Snapshot) *proto.Snapshot {
	return &proto.Snapshot{
		Path:  string(s.Path),
		Value: s.Value,
	}
}
