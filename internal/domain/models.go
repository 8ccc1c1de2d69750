package domain

import "time"

// Domain contains core models shared across the harness.

// Outcome is the verdict of a single check.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
)

// Transition describes how a check's outcome relates to its previous run.
type Transition string

const (
	TransitionNew          Transition = "new"
	TransitionSteady       Transition = "steady"
	TransitionRegressed    Transition = "regressed"
	TransitionRecovered    Transition = "recovered"
	TransitionStillFailing Transition = "still_failing"
)

// CheckResult captures the observed outcome of one endpoint check.
type CheckResult struct {
	CheckID     string        `json:"check_id"`
	Name        string        `json:"name"`
	Outcome     Outcome       `json:"outcome"`
	StatusCode  int           `json:"status_code,omitempty"`
	Latency     time.Duration `json:"latency_ns"`
	BodySnippet string        `json:"body_snippet,omitempty"`
	Err         string        `json:"error,omitempty"`
	Transition  Transition    `json:"transition,omitempty"`
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool { return r.Outcome == OutcomePassed }

// RunReport aggregates one full pass over the checklist.
type RunReport struct {
	RunID     string        `json:"run_id"`
	BaseURL   string        `json:"base_url"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Results   []CheckResult `json:"results"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
}

// Healthy reports whether every check in the run passed.
func (r RunReport) Healthy() bool { return r.Failed == 0 && len(r.Results) > 0 }
