package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/storefront/internal/mocks"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/repository/memory"
	"github.com/dtroode/storefront/internal/testutil"
	"github.com/dtroode/storefront/internal/token"
)

var testKDF = model.KDFParams{Time: 1, MemKiB: 64, Par: 1}

func newTestAuth() *Auth {
	return NewAuth(
		memory.NewUserRepository(),
		memory.NewRefreshTokenRepository(),
		token.NewJWT("secret", 0, 0),
		testKDF,
		testutil.MakeNoopLogger(),
	)
}

func requireAuthCode(t *testing.T, err error, code model.AuthErrorCode) {
	t.Helper()
	var authErr *model.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	assert.Equal(t, code, authErr.Code)
}

func TestAuth_SignUpThenSignIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestAuth()

	created, err := a.SignUp(ctx, " New@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", created.Email)
	assert.NotEqual(t, uuid.Nil, created.UserID)
	assert.NotEmpty(t, created.AccessToken)
	assert.NotEmpty(t, created.RefreshToken)

	uid, err := a.GetUserID(ctx, created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, uid)

	signedIn, err := a.SignIn(ctx, "new@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, signedIn.UserID)
}

func TestAuth_SignUp_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestAuth()
	_, err := a.SignUp(ctx, "taken@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		code     model.AuthErrorCode
	}{
		{name: "malformed email", email: "nope", password: "secret1", code: model.AuthErrInvalidEmail},
		{name: "weak password", email: "a@b.co", password: "12345", code: model.AuthErrWeakPassword},
		{name: "weak multibyte password", email: "a@b.co", password: "ééé", code: model.AuthErrWeakPassword},
		{name: "taken email", email: "TAKEN@example.com", password: "secret1", code: model.AuthErrEmailInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SignUp(ctx, tt.email, tt.password)
			requireAuthCode(t, err, tt.code)
		})
	}
}

func TestAuth_SignIn_InvalidCredential(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestAuth()
	_, err := a.SignUp(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	_, err = a.SignIn(ctx, "user@example.com", "wrong-password")
	requireAuthCode(t, err, model.AuthErrInvalidCredential)

	_, err = a.SignIn(ctx, "ghost@example.com", "secret1")
	requireAuthCode(t, err, model.AuthErrInvalidCredential)
}

func TestAuth_RefreshAndSignOut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := newTestAuth()
	s, err := a.SignUp(ctx, "user@example.com", "secret1")
	require.NoError(t, err)

	renewed, err := a.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, renewed.UserID)
	assert.Equal(t, s.Email, renewed.Email)
	assert.NotEqual(t, s.RefreshToken, renewed.RefreshToken)

	// The rotated token cannot be replayed.
	_, err = a.Refresh(ctx, s.RefreshToken)
	requireAuthCode(t, err, model.AuthErrSessionExpired)

	require.NoError(t, a.SignOut(ctx, renewed.RefreshToken))
	_, err = a.Refresh(ctx, renewed.RefreshToken)
	requireAuthCode(t, err, model.AuthErrSessionExpired)

	require.NoError(t, a.SignOut(ctx, "garbage"))
}

func TestAuth_SignUp_StoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := servermocks.NewUserStore(t)
	users.On("GetByEmail", mock.Anything, "a@b.co").Return(model.User{}, model.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, assert.AnError).Once()

	a := NewAuth(users, servermocks.NewRefreshTokenStore(t), servermocks.NewTokenManager(t), testKDF, testutil.MakeNoopLogger())

	_, err := a.SignUp(ctx, "a@b.co", "secret1")
	require.ErrorIs(t, err, assert.AnError)

	var authErr *model.AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestAuth_SignUp_CreateRace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := servermocks.NewUserStore(t)
	users.On("GetByEmail", mock.Anything, "a@b.co").Return(model.User{}, model.ErrNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "a@b.co" && len(u.Salt) == saltSize && len(u.PasswordHash) == keySize
	})).Return(model.User{}, model.ErrAlreadyExists).Once()

	a := NewAuth(users, servermocks.NewRefreshTokenStore(t), servermocks.NewTokenManager(t), testKDF, testutil.MakeNoopLogger())

	_, err := a.SignUp(ctx, "a@b.co", "secret1")
	requireAuthCode(t, err, model.AuthErrEmailInUse)
}
