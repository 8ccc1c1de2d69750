package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
	"github.com/agrismart-hq/agrismart-smoketest/internal/runner"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/checks"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/httpclient"
)

func TestMonitorRunsUntilCancelled(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.CheckInterval = 50 * time.Millisecond
	cfg.HistoryType = "bbolt"
	cfg.HistoryPath = filepath.Join(t.TempDir(), "history.db")

	monitor, err := NewMonitor(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	// Let the initial pass plus at least one ticker pass complete.
	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("monitor did not stop on cancel")
	}

	// 5 default checks per pass, at least two passes.
	if calls < 10 {
		t.Fatalf("expected at least two passes, saw %d calls", calls)
	}
}

func TestMonitorIdleStopsCleanlyOnCancel(t *testing.T) {
	reg, err := checks.NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	m := &Monitor{
		cfg:      testConfig("http://localhost:0"),
		checkReg: reg,
		service:  runner.NewService(httpclient.NewRestyClient(time.Second), nil, &logger.NopLogger{}),
		interval: 50 * time.Millisecond,
		log:      &logger.NopLogger{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("idle monitor should shut down cleanly, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("idle monitor did not stop on cancel")
	}
}
