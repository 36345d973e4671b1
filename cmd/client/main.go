package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/storefront/internal/client/app"
	"github.com/dtroode/storefront/internal/client/cli"
	"github.com/dtroode/storefront/internal/config"
	"github.com/dtroode/storefront/internal/logger"
	"github.com/dtroode/storefront/internal/model"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// localKDF is the password hashing cost of the in-process backend.
var localKDF = model.KDFParams{Time: 1, MemKiB: 19 * 1024, Par: 2}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewClientConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to open log: %v", err)
	}
	defer closer.Close()

	logger.Info("Starting storefront client",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit,
		"local", cfg.Local)

	var a *app.App
	if cfg.Local {
		a, err = app.NewLocal(localKDF, logger)
	} else {
		a, err = app.NewRemote(cfg, logger)
	}
	if err != nil {
		logger.Fatal("failed to start client", "error", err.Error())
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to close client", "error", err.Error())
		}
	}()

	a.Start(ctx)

	if err := cli.New(a, os.Stdin, os.Stdout).Run(ctx); err != nil {
		logger.Error("client stopped", "error", err.Error())
	}
}

// newLogger writes to STOREFRONT_LOG_FILE, or to stderr when it is unset.
func newLogger(cfg *config.ClientConfig) (*logger.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		return logger.NewFile(cfg.LogFile, cfg.LogLevel)
	}
	return logger.NewWithWriter(os.Stderr, cfg.LogLevel), io.NopCloser(nil), nil
}
