package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/service"
)

// authCodes maps session errors to transport codes. The status message
// carries the AuthErrorCode so clients can rebuild the error.
var authCodes = map[model.AuthErrorCode]codes.Code{
	model.AuthErrEmailInUse:        codes.AlreadyExists,
	model.AuthErrInvalidEmail:      codes.InvalidArgument,
	model.AuthErrWeakPassword:      codes.InvalidArgument,
	model.AuthErrInvalidCredential: codes.Unauthenticated,
	model.AuthErrSessionExpired:    codes.Unauthenticated,
	model.AuthErrTooManyRequests:   codes.ResourceExhausted,
}

func handleError(err error) error {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		code, ok := authCodes[authErr.Code]
		if !ok {
			code = codes.Internal
		}
		return status.Error(code, string(authErr.Code))
	}

	switch {
	case errors.Is(err, model.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, model.ErrInvalidPath),
		errors.Is(err, model.ErrInvalidValue),
		errors.Is(err, service.ErrUnsupportedImage):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
