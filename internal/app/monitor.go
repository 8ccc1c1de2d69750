package app

import (
	"context"
	"fmt"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/config"
	"github.com/agrismart-hq/agrismart-smoketest/internal/history"
	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
	"github.com/agrismart-hq/agrismart-smoketest/internal/runner"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/checks"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/httpclient"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/reporters"
)

// Monitor runs the checklist on an interval, keeping run history so each
// result carries a transition relative to the previous pass.
type Monitor struct {
	cfg      *config.Config
	checkReg *checks.Registry
	fanout   *reporters.Fanout
	service  *runner.Service
	interval time.Duration
	token    string
	log      logger.Logger
	store    history.Store
}

// NewMonitor builds a monitoring runtime from config files.
func NewMonitor(ctx context.Context, cfg *config.Config, log logger.Logger) (*Monitor, error) {
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

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := openHistory(cfg, log)
	if err != nil {
		return nil, err
	}

	token, err := resolveToken(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := httpclient.NewRestyClient(cfg.RequestTimeout)
	service := runner.NewService(client, store, log)

	return &Monitor{
		cfg:      cfg,
		checkReg: checkReg,
		fanout:   fanout,
		service:  service,
		interval: cfg.CheckInterval,
		token:    token,
		log:      log,
		store:    store,
	}, nil
}

// Run starts the monitoring loop until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	if m == nil || m.service == nil {
		return fmt.Errorf("monitor is not initialized")
	}
	defer m.closeStore()

	list := m.checkReg.All()
	if len(list) == 0 {
		m.log.WarnObj("no checks configured; monitor idle", "checks_file", m.cfg.ChecksFile)
		<-ctx.Done()
		m.log.InfoObj("monitor loop exiting", "reason", ctx.Err())
		return nil
	}

	m.log.InfoObj("monitor loop starting", "monitor_state", map[string]any{
		"checks_count":    len(list),
		"reporters_count": m.fanout.Size(),
		"check_interval":  m.interval.String(),
	})

	m.runOnce(ctx, list)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.InfoObj("monitor loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			m.runOnce(ctx, list)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context, list []checks.Check) {
	start := time.Now()
	report := m.service.Run(ctx, m.cfg.BaseURL, m.token, list)

	if sent, err := m.fanout.Send(ctx, reporters.NewReport(m.cfg.AppName, report)); err != nil {
		m.log.ErrorObj("report fanout partially failed", "fanout_error", map[string]any{
			"delivered": sent,
			"error":     err.Error(),
		})
	}

	m.log.InfoObj("monitor pass completed", "run_meta", map[string]any{
		"run_id":     report.RunID,
		"passed":     report.Passed,
		"failed":     report.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

func (m *Monitor) closeStore() {
	if m == nil || m.store == nil {
		return
	}
	if err := m.store.Close(); err != nil {
		m.log.WarnObj("history close failed", "error", err.Error())
	}
}
