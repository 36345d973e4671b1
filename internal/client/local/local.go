// Package local runs the storefront backend inside the client process, over
// in-memory stores. It backs offline mode and the end-to-end tests.
package local

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/realtime"
	"github.com/dtroode/storefront/internal/repository/memory"
	"github.com/dtroode/storefront/internal/service"
	"github.com/dtroode/storefront/internal/token"
)

// Backend is an in-process auth provider, record store and avatar store.
type Backend struct {
	Auth    *service.Auth
	Records *service.Record
	Avatars *service.Avatar
	hub     *realtime.Hub
}

// New builds a Backend with a random token secret. kdf controls the password
// hashing cost.
func New(kdf model.KDFParams, logger *logger.Logger) (*Backend, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}

	nodes := memory.NewNodeRepository()
	hub := realtime.NewHub(nodes, nil, logger)
	records := service.NewRecord(nodes, hub, logger)

	return &Backend{
		Auth: service.NewAuth(
			memory.NewUserRepository(),
			memory.NewRefreshTokenRepository(),
			token.NewJWT(hex.EncodeToString(secret), 0, 0),
			kdf,
			logger,
		),
		Records: records,
		Avatars: service.NewAvatar(memory.NewObjectStore(), records, logger),
		hub:     hub,
	}, nil
}

// Watchers reports the number of open record subscriptions.
func (b *Backend) Watchers() int {
	return b.hub.Watchers()
}

// CurrentUser resolves the signed-in user.
type CurrentUser interface {
	Current() *model.Session
}

var _ model.RecordStore = (*RecordStore)(nil)

// RecordStore implements model.RecordStore for the signed-in user on top of
// the in-process record service.
type RecordStore struct {
	records *service.Record
	user    CurrentUser
	logger  *logger.Logger
}

func NewRecordStore(records *service.Record, user CurrentUser, logger *logger.Logger) *RecordStore {
	return &RecordStore{records: records, user: user, logger: logger}
}

func (s *RecordStore) Set(ctx context.Context, path model.Path, value any) error {
	uid, err := s.userID()
	if err != nil {
		return &model.StoreError{Op: "set", Path: path, Err: err}
	}
	return wrap("set", path, s.records.Set(ctx, uid, path, value))
}

func (s *RecordStore) Update(ctx context.Context, path model.Path, fields map[string]any) error {
	uid, err := s.userID()
	if err != nil {
		return &model.StoreError{Op: "update", Path: path, Err: err}
	}
	return wrap("update", path, s.records.Update(ctx, uid, path, fields))
}

func (s *RecordStore) Push(ctx context.Context, path model.Path, value any) (string, error) {
	uid, err := s.userID()
	if err != nil {
		return "", &model.StoreError{Op: "push", Path: path, Err: err}
	}
	key, err := s.records.Push(ctx, uid, path, value)
	return key, wrap("push", path, err)
}

func (s *RecordStore) Remove(ctx context.Context, path model.Path) error {
	uid, err := s.userID()
	if err != nil {
		return &model.StoreError{Op: "remove", Path: path, Err: err}
	}
	return wrap("remove", path, s.records.Remove(ctx, uid, path))
}

// Subscribe delivers the value at path from a background goroutine. Without
// a session, or for a path outside the user's data, listener is never called.
func (s *RecordStore) Subscribe(path model.Path, listener func(model.Snapshot)) model.Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	unsubscribe := func() { once.Do(cancel) }

	uid, err := s.userID()
	if err != nil {
		s.logger.Warn("Local records: subscribe without session",
			"path", path)
		return unsubscribe
	}

	snapshots, err := s.records.Watch(ctx, uid, path)
	if err != nil {
		s.logger.Warn("Local records: subscribe rejected",
			"path", path,
			"error", err.Error())
		return unsubscribe
	}

	go func() {
		for snapshot := range snapshots {
			listener(snapshot)
		}
	}()

	return unsubscribe
}

func (s *RecordStore) userID() (uuid.UUID, error) {
	current := s.user.Current()
	if current == nil {
		return uuid.Nil, model.ErrNoSession
	}
	return current.UserID, nil
}

func wrap(op string, path model.Path, err error) error {
	if err == nil {
		return nil
	}
	return &model.StoreError{Op: op, Path: path, Err: err}
}
