package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	grpcctx "github.com/dtroode/storefront/internal/api/grpc/context"
	"github.com/dtroode/storefront/internal/api/grpc/middleware"
	"github.com/dtroode/storefront/internal/api/grpc/router"
	grpcServer "github.com/dtroode/storefront/internal/api/grpc/server"
	"github.com/dtroode/storefront/internal/config"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/metrics"
	"github.com/dtroode/storefront/internal/model"
	"github.com/dtroode/storefront/internal/realtime"
	"github.com/dtroode/storefront/internal/server"
	"github.com/dtroode/storefront/internal/service"
	"github.com/dtroode/storefront/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	logAppVersion()

	stores, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "backend", cfg.StoreBackend)
	}
	defer stores.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	hub := realtime.NewHub(stores.nodes, collector, logger)
	var feed model.ChangeFeed = hub
	if cfg.Redis.URL != "" {
		broadcaster, err := startBroadcaster(ctx, hub, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to start change broadcaster", "error", err)
		}
		feed = broadcaster
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	kdf := model.KDFParams{Time: cfg.KDF.Time, MemKiB: cfg.KDF.MemKiB, Par: cfg.KDF.Par}

	authService := service.NewAuth(stores.users, stores.refreshTokens, tokenManager, kdf, logger)
	recordService := service.NewRecord(stores.nodes, feed, logger)
	avatarService := service.NewAvatar(stores.objects, recordService, logger)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(cfg.RateLimit.RPS),
		Burst:           cfg.RateLimit.Burst,
		CleanupInterval: cfg.RateLimit.CleanupInterval,
	}, collector, logger)
	defer limiter.Stop()

	r := router.New(router.Services{
		Auth:    authService,
		Tokens:  authService,
		Records: recordService,
		Avatars: avatarService,
	}, grpcctx.NewManager(), logger,
		router.WithMetrics(collector),
		router.WithRateLimiter(limiter),
	)
	grpcSrv := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "backend", cfg.StoreBackend)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(grpcSrv)

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metrics.SetupMetricsRoute(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting metrics server on", "address", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to start metrics server", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := grpcSrv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcSrv.Address())
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during metrics server shutdown", "error", err)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
