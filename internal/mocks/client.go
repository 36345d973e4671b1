package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/storefront/internal/model"
)

// SessionStore is a mock of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t testing.TB) *SessionStore {
	m := &SessionStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SessionStore) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *SessionStore) SignUp(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *SessionStore) SignOut(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

func (_m *SessionStore) Current() *model.Session {
	ret := _m.Called()
	if v := ret.Get(0); v != nil {
		return v.(*model.Session)
	}
	return nil
}

func (_m *SessionStore) Subscribe(listener func(*model.Session)) model.Unsubscribe {
	ret := _m.Called(listener)
	switch v := ret.Get(0).(type) {
	case func(func(*model.Session)) model.Unsubscribe:
		return v(listener)
	case model.Unsubscribe:
		if v != nil {
			return v
		}
	case func():
		if v != nil {
			return v
		}
	}
	return func() {}
}

// RecordStore is a mock of model.RecordStore.
type RecordStore struct {
	mock.Mock
}

func NewRecordStore(t testing.TB) *RecordStore {
	m := &RecordStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RecordStore) Set(ctx context.Context, path model.Path, value any) error {
	return _m.Called(ctx, path, value).Error(0)
}

func (_m *RecordStore) Update(ctx context.Context, path model.Path, fields map[string]any) error {
	return _m.Called(ctx, path, fields).Error(0)
}

func (_m *RecordStore) Push(ctx context.Context, path model.Path, value any) (string, error) {
	ret := _m.Called(ctx, path, value)
	return ret.String(0), ret.Error(1)
}

func (_m *RecordStore) Remove(ctx context.Context, path model.Path) error {
	return _m.Called(ctx, path).Error(0)
}

func (_m *RecordStore) Subscribe(path model.Path, listener func(model.Snapshot)) model.Unsubscribe {
	ret := _m.Called(path, listener)
	switch v := ret.Get(0).(type) {
	case func(model.Path, func(model.Snapshot)) model.Unsubscribe:
		return v(path, listener)
	case model.Unsubscribe:
		if v != nil {
			return v
		}
	case func():
		if v != nil {
			return v
		}
	}
	return func() {}
}

// Navigator is a mock of model.Navigator.
type Navigator struct {
	mock.Mock
}

func NewNavigator(t testing.TB) *Navigator {
	m := &Navigator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Navigator) Navigate(screen model.Screen, params any) {
	_m.Called(screen, params)
}

func (_m *Navigator) GoBack() {
	_m.Called()
}

func (_m *Navigator) SetScreenOptions(screen model.Screen, opts model.ScreenOptions) {
	_m.Called(screen, opts)
}
