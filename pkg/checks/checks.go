package checks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package checks holds the config-driven endpoint checklist (YAML/JSON) helpers.

const (
	// Supported check kinds.
	KindJSON = "json"
	KindHTML = "html"
)

// Check describes one endpoint to smoke-test.
type Check struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Method       string `json:"method" yaml:"method"`
	Path         string `json:"path" yaml:"path"`
	Body         string `json:"body" yaml:"body"`
	RequiresAuth bool   `json:"requires_auth" yaml:"requires_auth"`
	ExpectStatus int    `json:"expect_status" yaml:"expect_status"`
	Kind         string `json:"kind" yaml:"kind"`
}

// configFile represents the structure of the checklist file.
type configFile struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Registry materializes check definitions loaded from config files.
type Registry struct {
	mu     sync.RWMutex
	checks []Check
	idx    map[string]Check
}

// LoadRegistry loads the checklist from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("checks file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checks file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read checks file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Checks) == 0 {
		return nil, errors.New("checks file contains no checks entries")
	}

	return NewRegistry(fileReg.Checks)
}

// NewRegistry builds a registry from in-memory check definitions.
func NewRegistry(list []Check) (*Registry, error) {
	reg := &Registry{
		checks: make([]Check, len(list)),
		idx:    make(map[string]Check, len(list)),
	}

	for i := range list {
		c := sanitizeCheck(list[i])
		if err := validateCheck(c); err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		if _, exists := reg.idx[c.ID]; exists {
			return nil, fmt.Errorf("duplicate check id %q", c.ID)
		}
		reg.checks[i] = c
		reg.idx[c.ID] = c
	}

	return reg, nil
}

// parseRegistry attempts to decode the checks file content.
func parseRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("checks file format not recognized (expected YAML or JSON)")
}

// unmarshalRegistry decodes the checks file using the provided function.
func unmarshalRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s checks: %w", name, err)
	}
	return reg, nil
}

// sanitizeCheck trims and normalizes the check fields.
func sanitizeCheck(c Check) Check {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	c.Path = strings.TrimSpace(c.Path)
	c.Body = strings.TrimSpace(c.Body)
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))

	if c.Method == "" {
		c.Method = http.MethodGet
	}
	if c.Kind == "" {
		c.Kind = KindJSON
	}
	if c.Name == "" {
		c.Name = c.ID
	}

	return c
}

// validateCheck checks that required fields are present and well-formed.
func validateCheck(c Check) error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	if c.Path == "" || !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with / for check %q", c.ID)
	}
	if c.Kind != KindJSON && c.Kind != KindHTML {
		return fmt.Errorf("unsupported kind %q for check %q", c.Kind, c.ID)
	}
	if c.Body != "" && !json.Valid([]byte(c.Body)) {
		return fmt.Errorf("body is not valid JSON for check %q", c.ID)
	}
	if c.Body != "" && c.Method == http.MethodGet {
		return fmt.Errorf("GET check %q must not declare a body", c.ID)
	}
	if c.ExpectStatus < 0 || (c.ExpectStatus > 0 && (c.ExpectStatus < 100 || c.ExpectStatus > 599)) {
		return fmt.Errorf("expect_status out of range for check %q", c.ID)
	}
	return nil
}

// ByID returns the check for the given id, if loaded.
func (r *Registry) ByID(id string) (Check, bool) {
	if r == nil {
		return Check{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Check{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.idx[id]
	return c, ok
}

// All returns a copy of the loaded checklist in declaration order.
func (r *Registry) All() []Check {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}
