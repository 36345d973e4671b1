package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// AuthService defines account and session operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (model.Session, error)
	SignIn(ctx context.Context, email, password string) (model.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
}

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

var _ proto.AuthServer = (*Auth)(nil)

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// SignUp creates an account and returns its first session.
func (h *Auth) SignUp(ctx context.Context, req *proto.Credentials) (*proto.Session, error) {
	h.logger.Debug("Auth handler: processing sign up request",
		"email", req.Email)

	session, err := h.authService.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign up failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: sign up completed",
		"user_id", session.UserID)

	return toProtoSession(session), nil
}

// SignIn verifies credentials and returns a session.
func (h *Auth) SignIn(ctx context.Context, req *proto.Credentials) (*proto.Session, error) {
	h.logger.Debug("Auth handler: processing sign in request",
		"email", req.Email)

	session, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign in failed",
			"email", req.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: sign in completed",
		"user_id", session.UserID)

	return toProtoSession(session), nil
}

// SignOut revokes a refresh token.
func (h *Auth) SignOut(ctx context.Context, req *proto.TokenRequest) (*proto.Empty, error) {
	h.logger.Debug("Auth handler: processing sign out request")

	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	if err := h.authService.SignOut(ctx, req.RefreshToken); err != nil {
		h.logger.Error("Auth handler: sign out failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: sign out completed")

	return &proto.Empty{}, nil
}

// Refresh exchanges a refresh token for a renewed session.
func (h *Auth) Refresh(ctx context.Context, req *proto.TokenRequest) (*proto.Session, error) {
	h.logger.Debug("Auth handler: processing token refresh request")

	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	session, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: token refresh successful",
		"user_id", session.UserID)

	return toProtoSession(session), nil
}

func toProtoSession(s model.Session) *proto.Session {
	return &proto.Session{
		UserID:       s.UserID.String(),
		Email:        s.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
