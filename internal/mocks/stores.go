package mocks

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/storefront/internal/model"
)

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func NewRefreshTokenStore(t testing.TB) *RefreshTokenStore {
	m := &RefreshTokenStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	return _m.Called(ctx, token).Error(0)
}

func (_m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	ret := _m.Called(ctx, jti)
	return ret.Get(0).(model.RefreshToken), ret.Error(1)
}

func (_m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	return _m.Called(ctx, jti).Error(0)
}

func (_m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return _m.Called(ctx, userID).Error(0)
}

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func NewUserStore(t testing.TB) *UserStore {
	m := &UserStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	return ret.Get(0).(model.User), ret.Error(1)
}

// NodeStore is a mock of model.NodeStore.
type NodeStore struct {
	mock.Mock
}

func NewNodeStore(t testing.TB) *NodeStore {
	m := &NodeStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *NodeStore) Load(ctx context.Context, path model.Path) (map[model.Path]any, error) {
	ret := _m.Called(ctx, path)
	var leaves map[model.Path]any
	if v := ret.Get(0); v != nil {
		leaves = v.(map[model.Path]any)
	}
	return leaves, ret.Error(1)
}

func (_m *NodeStore) Apply(ctx context.Context, writes []model.NodeWrite) error {
	return _m.Called(ctx, writes).Error(0)
}

// ChangeFeed is a mock of model.ChangeFeed.
type ChangeFeed struct {
	mock.Mock
}

func NewChangeFeed(t testing.TB) *ChangeFeed {
	m := &ChangeFeed{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ChangeFeed) Notify(ctx context.Context, path model.Path) {
	_m.Called(ctx, path)
}

func (_m *ChangeFeed) Watch(ctx context.Context, path model.Path) <-chan model.Snapshot {
	ret := _m.Called(ctx, path)
	if v := ret.Get(0); v != nil {
		return v.(<-chan model.Snapshot)
	}
	return nil
}

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func NewStorage(t testing.TB) *Storage {
	m := &Storage{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return _m.Called(ctx, key, reader, size, contentType).Error(0)
}

func (_m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, key)
	var rc io.ReadCloser
	if v := ret.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, ret.Error(1)
}

func (_m *Storage) Delete(ctx context.Context, key string) error {
	return _m.Called(ctx, key).Error(0)
}

func (_m *Storage) Stat(ctx context.Context, key string) (model.ObjectInfo, error) {
	ret := _m.Called(ctx, key)
	return ret.Get(0).(model.ObjectInfo), ret.Error(1)
}

// ContextManager is a mock of model.ContextManager.
type ContextManager struct {
	mock.Mock
}

func NewContextManager(t testing.TB) *ContextManager {
	m := &ContextManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ContextManager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return _m.Called(ctx, userID).Get(0).(context.Context)
}

func (_m *ContextManager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	ret := _m.Called(ctx)
	return ret.Get(0).(uuid.UUID), ret.Bool(1)
}
