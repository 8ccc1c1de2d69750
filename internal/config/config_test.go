package config

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("RequestTimeout = %s", cfg.RequestTimeout)
	}
	if cfg.CheckInterval != 5*time.Minute {
		t.Fatalf("CheckInterval = %s", cfg.CheckInterval)
	}
	if cfg.HistoryType != "none" {
		t.Fatalf("HistoryType = %s", cfg.HistoryType)
	}
}

func TestLoadTrimsBaseURLTrailingSlash(t *testing.T) {
	t.Setenv("BASE_URL", "http://api.example.com:8000/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://api.example.com:8000" {
		t.Fatalf("BaseURL = %s", cfg.BaseURL)
	}
}

func TestStartupConfigLogMasksCredentials(t *testing.T) {
	cfg := &Config{
		AppName:     "agrismart-smoketest",
		BaseURL:     "http://localhost:8000",
		APIToken:    "super-secret-token",
		APIEmail:    "ops@example.com",
		APIPassword: "hunter2",
	}

	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("smoketest starting", zap.Any("config", cfg))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range entries[0].Context {
		field.AddTo(enc)
	}
	blob := fmt.Sprintf("%v", enc.Fields)

	for _, secret := range []string{"super-secret-token", "hunter2"} {
		if strings.Contains(blob, secret) {
			t.Fatalf("startup config log contains credential %q: %s", secret, blob)
		}
	}
	if !strings.Contains(blob, "http://localhost:8000") {
		t.Fatalf("startup config log lost base_url: %s", blob)
	}
	if !strings.Contains(blob, "ops@example.com") {
		t.Fatalf("startup config log lost api_email: %s", blob)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero request_timeout")
	}
}
