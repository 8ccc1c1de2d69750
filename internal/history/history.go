package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/domain"
)

// Package history persists the last observed outcome per check so interval
// runs can report status transitions.

// Store records and recalls per-check outcomes.
type Store interface {
	Close() error
	LastOutcome(checkID string) (domain.Outcome, bool, error)
	RecordOutcome(checkID string, outcome domain.Outcome) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	OutcomeTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultOutcomeTTL      = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured history backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt history requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported history type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.OutcomeTTL <= 0 {
		opts.OutcomeTTL = defaultOutcomeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                     { return nil }
func (noopStore) LastOutcome(string) (domain.Outcome, bool, error) { return "", false, nil }
func (noopStore) RecordOutcome(string, domain.Outcome) error       { return nil }

// Transition classifies the current outcome against the previously recorded one.
func Transition(prev domain.Outcome, known bool, current domain.Outcome) domain.Transition {
	if !known {
		return domain.TransitionNew
	}
	switch {
	case prev == current && current == domain.OutcomeFailed:
		return domain.TransitionStillFailing
	case prev == current:
		return domain.TransitionSteady
	case current == domain.OutcomeFailed:
		return domain.TransitionRegressed
	default:
		return domain.TransitionRecovered
	}
}
