package main

import (
	"context"
	"errors"
	logg "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loboot/vote-system/internal/cli"
	"github.com/loboot/vote-system/internal/config"
	"github.com/loboot/vote-system/internal/gateway"
	"github.com/loboot/vote-system/internal/repository"
	"github.com/loboot/vote-system/internal/session"
	"github.com/loboot/vote-system/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logg.Fatalf("failed to load config: %s", err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		logg.Fatalf("failed to initialize logger: %s", err)
	}
	defer log.Sync()

	sess, err := session.New(cfg.SessionFile, log)
	if err != nil {
		logg.Fatalf("failed to open session store: %s", err)
	}

	gw := gateway.New(cfg.APIBaseURL, time.Duration(cfg.RequestTimeout)*time.Second, sess, log)
	repo := repository.New(gw, sess, log)
	handler := cli.New(repo, sess, log, os.Stdin, os.Stdout)

	log.Info("client started",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Bool("authenticated", sess.Authenticated()))

	if err = handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("client stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("client stopped")
}
