package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/agrismart-hq/agrismart-smoketest/internal/config"
	"github.com/agrismart-hq/agrismart-smoketest/internal/history"
	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/agrismart"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/checks"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/reporters"
)

// loadChecklist resolves the checklist from the configured file, falling back
// to the built-in five-endpoint defaults when no file is present.
func loadChecklist(cfg *config.Config, log logger.Logger) (*checks.Registry, error) {
	if cfg.ChecksFile != "" {
		if _, err := os.Stat(cfg.ChecksFile); err == nil {
			reg, err := checks.LoadRegistry(cfg.ChecksFile)
			if err != nil {
				return nil, fmt.Errorf("load checks registry: %w", err)
			}
			return reg, nil
		}
	}

	log.InfoObj("checks file not found; using built-in checklist", "checks_file", cfg.ChecksFile)
	reg, err := checks.DefaultRegistry(cfg.ProbeDocs)
	if err != nil {
		return nil, fmt.Errorf("build default checklist: %w", err)
	}
	return reg, nil
}

// buildFanout resolves reporters from the configured file, falling back to a
// single log sink when no file is present.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*reporters.Fanout, error) {
	var enabled []reporters.ReporterConfig

	if cfg.ReportersFile != "" {
		if _, err := os.Stat(cfg.ReportersFile); err == nil {
			reporterReg, err := reporters.LoadRegistry(cfg.ReportersFile)
			if err != nil {
				return nil, fmt.Errorf("load reporters registry: %w", err)
			}
			enabled = reporterReg.Enabled()
		}
	}

	if len(enabled) == 0 {
		log.InfoObj("no reporters configured; defaulting to log sink", "reporters_file", cfg.ReportersFile)
		enabled = []reporters.ReporterConfig{{ID: "default-log", Type: reporters.TypeLog}}
	}

	repRegistry := reporters.DefaultRegistry()
	reps, err := reporters.BuildAll(ctx, repRegistry, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build reporters: %w", err)
	}
	return reporters.NewFanout(reps), nil
}

// openHistory opens the configured run-history store.
func openHistory(cfg *config.Config, log logger.Logger) (history.Store, error) {
	store, err := history.NewStore(cfg.HistoryType, cfg.HistoryPath, history.Options{
		OutcomeTTL:      cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}
	log.InfoObj("history initialized", "history_config", map[string]any{
		"type":                     cfg.HistoryType,
		"path":                     cfg.HistoryPath,
		"outcome_ttl_seconds":      int(cfg.HistoryTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.HistoryCleanupInterval.Seconds()),
	})
	return store, nil
}

// resolveToken returns the static token from config or bootstraps one through
// the login endpoint when credentials are configured instead. An empty result
// is not an error; protected checks are still attempted without auth.
func resolveToken(ctx context.Context, cfg *config.Config, log logger.Logger) (string, error) {
	if cfg.APIToken != "" {
		return cfg.APIToken, nil
	}
	if cfg.APIEmail == "" || cfg.APIPassword == "" {
		return "", nil
	}

	client := agrismart.NewClient(cfg.BaseURL, "", cfg.RequestTimeout)
	tok, err := client.Login(ctx, agrismart.Credentials{
		Email:    cfg.APIEmail,
		Password: cfg.APIPassword,
	})
	if err != nil {
		var apiErr *agrismart.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("login rejected: %w", err)
		}
		return "", fmt.Errorf("login: %w", err)
	}
	log.InfoObj("token bootstrapped via login", "login_meta", map[string]any{
		"base_url": cfg.BaseURL,
		"email":    cfg.APIEmail,
	})
	return tok.AccessToken, nil
}
