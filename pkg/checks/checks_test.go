package checks

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.yaml")
	raw := `
checks:
  - id: health
    path: /api/health
  - id: rainfall
    name: Rainfall prediction
    method: post
    path: /api/predictions/rainfall
    requires_auth: true
    body: '{"year":2024,"subdivision":1,"month":6,"current_rainfall":5.0}'
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(all))
	}
	if all[0].Method != http.MethodGet {
		t.Fatalf("expected GET default method, got %s", all[0].Method)
	}
	if all[0].Kind != KindJSON {
		t.Fatalf("expected json default kind, got %s", all[0].Kind)
	}
	if all[0].Name != "health" {
		t.Fatalf("expected name to default to id, got %q", all[0].Name)
	}

	rain, ok := reg.ByID("rainfall")
	if !ok {
		t.Fatalf("rainfall check not found by id")
	}
	if rain.Method != http.MethodPost {
		t.Fatalf("method should be upper-cased, got %s", rain.Method)
	}
	if !rain.RequiresAuth {
		t.Fatalf("requires_auth flag lost")
	}
	if rain.Body != RainfallSeasonalBody {
		t.Fatalf("body altered on load: %s", rain.Body)
	}
}

func TestLoadRegistryFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checks.json")
	raw := `{"checks":[{"id":"models","path":"/api/predictions/models","requires_auth":true}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.All()) != 1 {
		t.Fatalf("expected 1 check, got %d", len(reg.All()))
	}
}

func TestNewRegistryRejectsDuplicateIDs(t *testing.T) {
	_, err := NewRegistry([]Check{
		{ID: "health", Path: "/api/health"},
		{ID: "health", Path: "/api/health"},
	})
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateCheckRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name  string
		check Check
	}{
		{"missing id", Check{Path: "/x"}},
		{"relative path", Check{ID: "a", Path: "api/health"}},
		{"bad kind", Check{ID: "a", Path: "/x", Kind: "xml"}},
		{"invalid body", Check{ID: "a", Path: "/x", Method: "POST", Body: "{not json"}},
		{"body on GET", Check{ID: "a", Path: "/x", Body: `{"k":1}`}},
		{"status out of range", Check{ID: "a", Path: "/x", ExpectStatus: 42}},
	}
	for _, tc := range cases {
		if err := validateCheck(sanitizeCheck(tc.check)); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestDefaultsCoverTheFiveEndpoints(t *testing.T) {
	reg, err := DefaultRegistry(false)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	wantPaths := map[string]string{
		"health":    "/api/health",
		"rainfall":  "/api/predictions/rainfall",
		"soil-type": "/api/predictions/soil-type",
		"pest":      "/api/predictions/pest",
		"models":    "/api/predictions/models",
	}
	all := reg.All()
	if len(all) != len(wantPaths) {
		t.Fatalf("expected %d default checks, got %d", len(wantPaths), len(all))
	}
	for id, path := range wantPaths {
		c, ok := reg.ByID(id)
		if !ok {
			t.Fatalf("default check %q missing", id)
		}
		if c.Path != path {
			t.Fatalf("check %q path = %s, want %s", id, c.Path, path)
		}
	}

	health, _ := reg.ByID("health")
	if health.RequiresAuth {
		t.Fatalf("health check must not require auth")
	}
	for _, id := range []string{"rainfall", "soil-type", "pest", "models"} {
		c, _ := reg.ByID(id)
		if !c.RequiresAuth {
			t.Fatalf("check %q should require auth", id)
		}
	}
}

func TestDefaultRegistryWithDocsProbe(t *testing.T) {
	reg, err := DefaultRegistry(true)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	docs, ok := reg.ByID("docs")
	if !ok {
		t.Fatalf("docs probe missing")
	}
	if docs.Kind != KindHTML {
		t.Fatalf("docs probe kind = %s, want html", docs.Kind)
	}
}
