package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storefront/internal/api/proto"
	"github.com/dtroode/storefront/internal/model"
)

// AuthBackend implements session.Backend over the Auth service.
type AuthBackend struct {
	client proto.AuthClient
	parent *Client
}

func (a *AuthBackend) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	resp, err := a.client.SignUp(ctx, &proto.Credentials{Email: email, Password: password})
	if err != nil {
		return model.Session{}, toAuthError(err)
	}
	return fromProtoSession(resp)
}

func (a *AuthBackend) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	resp, err := a.client.SignIn(ctx, &proto.Credentials{Email: email, Password: password})
	if err != nil {
		return model.Session{}, toAuthError(err)
	}
	return fromProtoSession(resp)
}

func (a *AuthBackend) SignOut(ctx context.Context, refreshToken string) error {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	if _, err := a.client.SignOut(ctx, &proto.TokenRequest{RefreshToken: refreshToken}); err != nil {
		return toAuthError(err)
	}
	return nil
}

func (a *AuthBackend) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	ctx, cancel := a.parent.callContext(ctx)
	defer cancel()

	resp, err := a.client.Refresh(ctx, &proto.TokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return model.Session{}, toAuthError(err)
	}
	return fromProtoSession(resp)
}

func fromProtoSession(s *proto.Session) (model.Session, error) {
	uid, err := uuid.Parse(s.UserID)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to parse user id: %w", err)
	}
	return model.Session{
		UserID:       uid,
		Email:        s.Email,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}, nil
}

// toAuthError rebuilds the AuthError carried in the status message. Transport
// failures become AuthErrNetwork.
func toAuthError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return model.NewAuthError(model.AuthErrNetwork)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return model.NewAuthError(model.AuthErrNetwork)
	case codes.ResourceExhausted:
		return model.NewAuthError(model.AuthErrTooManyRequests)
	}

	if strings.HasPrefix(st.Message(), "auth/") {
		return model.NewAuthError(model.AuthErrorCode(st.Message()))
	}
	return model.NewAuthError(model.AuthErrInternal)
}
