package main

import (
	"context"
	"fmt"

	"github.com/dtroode/storefront/internal/config"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/realtime"
	"github.com/dtroode/storefront/internal/repository/memory"
	"github.com/dtroode/storefront/internal/repository/postgres"
	storage "github.com/dtroode/storefront/internal/storage/minio"
)

// stores groups the persistence of one backend.
type stores struct {
	users         model.UserStore
	refreshTokens model.RefreshTokenStore
	nodes         model.NodeStore
	objects       model.Storage
	close         func()
}

func (s *stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// openStores connects the backend selected by STORE_BACKEND.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		return &stores{
			users:         memory.NewUserRepository(),
			refreshTokens: memory.NewRefreshTokenRepository(),
			nodes:         memory.NewNodeRepository(),
			objects:       memory.NewObjectStore(),
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	objects, err := storage.Dial(ctx, storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	return &stores{
		users:         postgres.NewUserRepository(db),
		refreshTokens: postgres.NewRefreshTokenRepository(db),
		nodes:         postgres.NewNodeRepository(db),
		objects:       objects,
		close:         func() { _ = db.Close() },
	}, nil
}

// startBroadcaster relays change notifications through Redis until ctx is done.
func startBroadcaster(ctx context.Context, hub *realtime.Hub, cfg config.Redis, logger *logger.Logger) (*realtime.RedisBroadcaster, error) {
	client, err := realtime.NewRedisClient(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	broadcaster := realtime.NewRedisBroadcaster(hub, client, cfg.Channel, logger)
	if err := broadcaster.Start(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	return broadcaster, nil
}
