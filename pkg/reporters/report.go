package reporters

import (
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/domain"
)

// Report is the payload delivered to every configured sink after a run.
type Report struct {
	Harness   string           `json:"harness"`
	Run       domain.RunReport `json:"run"`
	EmittedAt time.Time        `json:"emitted_at"`
}

// NewReport wraps a finished run for delivery.
func NewReport(harness string, run domain.RunReport) Report {
	return Report{
		Harness:   harness,
		Run:       run,
		EmittedAt: time.Now().UTC(),
	}
}
