package remote

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/model"
)

// fromStatus maps a call error back to the model sentinel it was built from.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.PermissionDenied:
		return model.ErrPermissionDenied
	case codes.InvalidArgument:
		if strings.HasPrefix(st.Message(), model.ErrInvalidPath.Error()) {
			return fmt.Errorf("%w: %s", model.ErrInvalidPath, st.Message())
		}
		return fmt.Errorf("%w: %s", model.ErrInvalidValue, st.Message())
	case codes.NotFound:
		return model.ErrNotFound
	case codes.Unauthenticated:
		return model.ErrNoSession
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		return err
	}
}

func storeError(op string, path model.Path, err error) error {
	if err == nil {
		return nil
	}
	return &model.StoreError{Op: op, Path: path, Err: fromStatus(err)}
}
