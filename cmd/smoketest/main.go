package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrismart-hq/agrismart-smoketest/internal/app"
	"github.com/agrismart-hq/agrismart-smoketest/internal/config"
	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, app.ErrChecksFailed) {
			// failed checks are already logged and reported
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "smoketest start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("smoketest starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	smoke, err := app.NewSmoke(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize smoketest", "error", err)
		return err
	}

	if err := smoke.Run(ctx); err != nil {
		if errors.Is(err, app.ErrChecksFailed) {
			return err
		}
		return fmt.Errorf("smoketest run: %w", err)
	}

	return nil
}
