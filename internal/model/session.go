package model

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies the signed-in principal.
type Session struct {
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
}

// Unsubscribe releases a listener registration. Calling it more than once is safe.
type Unsubscribe func()

// SessionStore is the client view of the authentication provider.
type SessionStore interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
	Current() *Session
	// Subscribe registers listener for session changes. Once the store has
	// settled its initial state the listener is called with it immediately.
	Subscribe(listener func(*Session)) Unsubscribe
}

// RecordStore is the client view of the realtime hierarchical data store.
type RecordStore interface {
	Set(ctx context.Context, path Path, value any) error
	Update(ctx context.Context, path Path, fields map[string]any) error
	Push(ctx context.Context, path Path, value any) (string, error)
	Remove(ctx context.Context, path Path) error
	// Subscribe calls listener with the current value at path and again
	// after every change that affects it.
	Subscribe(path Path, listener func(Snapshot)) Unsubscribe
}

// Screen names a navigation destination.
type Screen string

const (
	ScreenAuth    Screen = "auth"
	ScreenHome    Screen = "home"
	ScreenProduct Screen = "product"
)

// ScreenOptions configures how a screen is presented.
type ScreenOptions struct {
	HeaderShown bool
	Actions     []string
}

// Navigator moves between screens.
type Navigator interface {
	Navigate(screen Screen, params any)
	GoBack()
	SetScreenOptions(screen Screen, opts ScreenOptions)
}
