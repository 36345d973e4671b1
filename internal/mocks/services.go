package mocks

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/storefront/internal/model"
)

// AuthService is a mock of handler.AuthService.
type AuthService struct {
	mock.Mock
}

func NewAuthService(t testing.TB) *AuthService {
	m := &AuthService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AuthService) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	return _m.Called(ctx, refreshToken).Error(0)
}

func (_m *AuthService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	ret := _m.Called(ctx, refreshToken)
	return ret.Get(0).(model.Session), ret.Error(1)
}

// TokenService is a mock of middleware.TokenService.
type TokenService struct {
	mock.Mock
}

func NewTokenService(t testing.TB) *TokenService {
	m := &TokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// RecordService is a mock of handler.RecordService.
type RecordService struct {
	mock.Mock
}

func NewRecordService(t testing.TB) *RecordService {
	m := &RecordService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RecordService) Get(ctx context.Context, userID uuid.UUID, path model.Path) (model.Snapshot, error) {
	ret := _m.Called(ctx, userID, path)
	return ret.Get(0).(model.Snapshot), ret.Error(1)
}

func (_m *RecordService) Set(ctx context.Context, userID uuid.UUID, path model.Path, value any) error {
	return _m.Called(ctx, userID, path, value).Error(0)
}

func (_m *RecordService) Update(ctx context.Context, userID uuid.UUID, path model.Path, fields map[string]any) error {
	return _m.Called(ctx, userID, path, fields).Error(0)
}

func (_m *RecordService) Push(ctx context.Context, userID uuid.UUID, path model.Path, value any) (string, error) {
	ret := _m.Called(ctx, userID, path, value)
	return ret.String(0), ret.Error(1)
}

func (_m *RecordService) Remove(ctx context.Context, userID uuid.UUID, path model.Path) error {
	return _m.Called(ctx, userID, path).Error(0)
}

func (_m *RecordService) Watch(ctx context.Context, userID uuid.UUID, path model.Path) (<-chan model.Snapshot, error) {
	ret := _m.Called(ctx, userID, path)
	var ch <-chan model.Snapshot
	if v := ret.Get(0); v != nil {
		switch c := v.(type) {
		case chan model.Snapshot:
			ch = c
		case <-chan model.Snapshot:
			ch = c
		}
	}
	return ch, ret.Error(1)
}

// AvatarService is a mock of handler.AvatarService.
type AvatarService struct {
	mock.Mock
}

func NewAvatarService(t testing.TB) *AvatarService {
	m := &AvatarService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AvatarService) Upload(ctx context.Context, userID uuid.UUID, data []byte) error {
	return _m.Called(ctx, userID, data).Error(0)
}

func (_m *AvatarService) Download(ctx context.Context, userID uuid.UUID) ([]byte, string, error) {
	ret := _m.Called(ctx, userID)
	var data []byte
	if v := ret.Get(0); v != nil {
		data = v.([]byte)
	}
	return data, ret.String(1), ret.Error(2)
}

func (_m *AvatarService) Remove(ctx context.Context, userID uuid.UUID) error {
	return _m.Called(ctx, userID).Error(0)
}

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

func NewSecurityLayer(t testing.TB) *SecurityLayer {
	m := &SecurityLayer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	ret := _m.Called(protocol, addr)
	var ln net.Listener
	if v := ret.Get(0); v != nil {
		ln = v.(net.Listener)
	}
	return ln, ret.Error(1)
}

// SessionBackend is a mock of session.Backend.
type SessionBackend struct {
	mock.Mock
}

func NewSessionBackend(t testing.TB) *SessionBackend {
	m := &SessionBackend{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SessionBackend) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *SessionBackend) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *SessionBackend) SignOut(ctx context.Context, refreshToken string) error {
	return _m.Called(ctx, refreshToken).Error(0)
}

func (_m *SessionBackend) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	ret := _m.Called(ctx, refreshToken)
	return ret.Get(0).(model.Session), ret.Error(1)
}
