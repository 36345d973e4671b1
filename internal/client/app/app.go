// Package app assembles the client: session, stores, navigation and the
// screen controllers.
package app

import (
	"context"
	"fmt"

	"github.com/dtroode/storefront/internal/client/authform"
	"github.com/dtroode/storefront/internal/client/catalog"
	"github.com/dtroode/storefront/internal/client/detail"
	"github.com/dtroode/storefront/internal/client/gate"
	"github.com/dtroode/storefront/internal/client/local"
	"github.com/dtroode/storefront/internal/client/nav"
	"github.com/dtroode/storefront/internal/client/remote"
	"github.com/dtroode/storefront/internal/client/session"
	"github.com/dtroode/storefront/internal/config"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

// AvatarStore manages the avatar of the signed-in user.
type AvatarStore interface {
	Upload(ctx context.Context, data []byte) error
	Download(ctx context.Context) ([]byte, string, error)
}

// App is a running client.
type App struct {
	Sessions *session.Store
	Records  model.RecordStore
	Avatars  AvatarStore
	Nav      *nav.Stack
	Gate     *gate.Gate
	Auth     *authform.Form
	Catalog  *catalog.Catalog

	logger *logger.Logger
	close  func() error
}

func assemble(sessions *session.Store, records model.RecordStore, avatars AvatarStore, logger *logger.Logger) *App {
	stack := nav.NewStack()
	return &App{
		Sessions: sessions,
		Records:  records,
		Avatars:  avatars,
		Nav:      stack,
		Gate:     gate.New(sessions, stack, logger),
		Auth:     authform.New(sessions, records, stack, logger),
		Catalog:  catalog.New(sessions, records, stack, logger),
		logger:   logger,
		close:    func() error { return nil },
	}
}

// NewLocal builds an App over an in-process backend. Nothing outlives the
// process.
func NewLocal(kdf model.KDFParams, logger *logger.Logger) (*App, error) {
	backend, err := local.New(kdf, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start local backend: %w", err)
	}
	return attachLocal(backend, logger), nil
}

// attachLocal builds an App with its own session over a shared backend.
func attachLocal(backend *local.Backend, logger *logger.Logger) *App {
	sessions := session.New(backend.Auth, nil, logger)
	return assemble(
		sessions,
		local.NewRecordStore(backend.Records, sessions, logger),
		local.NewAvatarStore(backend.Avatars, sessions),
		logger,
	)
}

// NewRemote builds an App talking to the server in cfg. The refresh token is
// kept in cfg.SessionFile when it is set.
func NewRemote(cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	client, err := remote.Dial(remote.Options{
		Addr:        cfg.ServerAddr,
		TLS:         cfg.TLS,
		CAFile:      cfg.CAFile,
		CallTimeout: cfg.CallTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	var persist session.Persister
	if cfg.SessionFile != "" {
		persist = session.NewFileStore(cfg.SessionFile)
	}

	sessions := session.New(client.Auth(), persist, logger)
	client.SetTokenSource(sessions)

	a := assemble(sessions, client.Records(), client.Avatars(), logger)
	a.close = client.Close
	return a, nil
}

// Start subscribes the controllers and settles the initial session.
func (a *App) Start(ctx context.Context) {
	a.Gate.Start()
	a.Catalog.Start()
	a.Sessions.Start(ctx)
}

// Detail opens the controller of the product screen.
func (a *App) Detail(product model.Product) *detail.Detail {
	return detail.New(product, a.Sessions, a.Records, a.Nav, a.logger)
}

// Close releases subscriptions and the connection.
func (a *App) Close() error {
	a.Catalog.Close()
	a.Gate.Close()
	return a.close()
}
