package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcctx "github.com/dtroode/storefront/internal/api/grpc/context"
	"github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/testutil"
)

func withAuthorization(value string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", value))
}

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	tokens := mocks.NewTokenService(t)
	tokens.On("GetUserID", mock.Anything, "good").Return(uid, nil)
	tokens.On("GetUserID", mock.Anything, "bad").Return(uuid.Nil, model.ErrInvalidToken)
	tokens.On("GetUserID", mock.Anything, "nil").Return(uuid.Nil, nil)

	manager := grpcctx.NewManager()
	m := NewAuthenticate(tokens, manager, testutil.MakeNoopLogger())

	ctx, err := m.AuthFunc(withAuthorization("Bearer good"))
	require.NoError(t, err)
	got, ok := manager.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uid, got)

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{name: "no metadata", ctx: context.Background(), msg: "missing authorization token"},
		{name: "empty bearer", ctx: withAuthorization("Bearer "), msg: "missing authorization token"},
		{name: "rejected token", ctx: withAuthorization("Bearer bad"), msg: "invalid authorization token"},
		{name: "nil user", ctx: withAuthorization("Bearer nil"), msg: "invalid authorization token"},
	}

	for _, tt := range tests {
		_, err := m.AuthFunc(tt.ctx)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.Unauthenticated, st.Code(), tt.name)
		assert.Equal(t, tt.msg, st.Message(), tt.name)
	}
}
