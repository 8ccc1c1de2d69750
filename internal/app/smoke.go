package app

import (
	"context"
	"fmt"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/config"
	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
	"github.com/agrismart-hq/agrismart-smoketest/internal/runner"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/checks"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/httpclient"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/reporters"
)

// ErrChecksFailed is returned by Smoke.Run when the pass completed but at
// least one check failed.
var ErrChecksFailed = fmt.Errorf("one or more checks failed")

// Smoke wires together the checklist, runner, and reporters for a single
// one-shot pass suitable for CI.
type Smoke struct {
	cfg      *config.Config
	checkReg *checks.Registry
	fanout   *reporters.Fanout
	service  *runner.Service
	token    string
	log      logger.Logger
}

// NewSmoke builds a one-shot smoke-test runtime from config files.
func NewSmoke(ctx context.Context, cfg *config.Config, log logger.Logger) (*Smoke, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	checkReg, err := loadChecklist(cfg, log)
	if err != nil {
		return nil, err
	}
	checkList := checkReg.All()
	checkIDs := make([]string, 0, len(checkList))
	for _, c := range checkList {
		checkIDs = append(checkIDs, c.ID)
	}
	log.InfoObj("checklist loaded", "checks_meta", map[string]any{
		"count": len(checkIDs),
		"ids":   checkIDs,
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	token, err := resolveToken(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	service := runner.NewService(client, nil, log)

	return &Smoke{
		cfg:      cfg,
		checkReg: checkReg,
		fanout:   fanout,
		service:  service,
		token:    token,
		log:      log,
	}, nil
}

// Run executes one checklist pass, fans out the report, and returns
// ErrChecksFailed when the run is unhealthy.
func (s *Smoke) Run(ctx context.Context) error {
	if s == nil || s.service == nil {
		return fmt.Errorf("smoke runtime is not initialized")
	}

	list := s.checkReg.All()
	if len(list) == 0 {
		return fmt.Errorf("no checks configured")
	}

	start := time.Now()
	s.log.InfoObj("smoke pass started", "run_meta", map[string]any{
		"base_url":     s.cfg.BaseURL,
		"checks_count": len(list),
	})

	report := s.service.Run(ctx, s.cfg.BaseURL, s.token, list)

	if sent, err := s.fanout.Send(ctx, reporters.NewReport(s.cfg.AppName, report)); err != nil {
		s.log.ErrorObj("report fanout partially failed", "fanout_error", map[string]any{
			"delivered": sent,
			"error":     err.Error(),
		})
	}

	s.log.InfoObj("smoke pass completed", "run_meta", map[string]any{
		"run_id":     report.RunID,
		"passed":     report.Passed,
		"failed":     report.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !report.Healthy() {
		return ErrChecksFailed
	}
	return nil
}
