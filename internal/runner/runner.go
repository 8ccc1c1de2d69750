package runner

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/agrismart-hq/agrismart-smoketest/internal/domain"
	"github.com/agrismart-hq/agrismart-smoketest/internal/history"
	"github.com/agrismart-hq/agrismart-smoketest/internal/logger"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/checks"
	"github.com/agrismart-hq/agrismart-smoketest/pkg/httpclient"
)

// Service executes a checklist pass against one deployment. Checks run
// strictly in order; a failed check never prevents the ones after it.
type Service struct {
	client httpclient.Client
	store  history.Store
	log    logger.Logger
}

// NewService wires a runner with the shared HTTP client and history store.
func NewService(client httpclient.Client, store history.Store, log logger.Logger) *Service {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{client: client, store: store, log: log}
}

// Run executes one pass over the checklist and returns the aggregated report.
// It aborts between checks when the context is cancelled; results collected
// up to that point are kept.
func (s *Service) Run(ctx context.Context, baseURL, token string, list []checks.Check) domain.RunReport {
	start := time.Now()
	report := domain.RunReport{
		RunID:     runID(baseURL, start),
		BaseURL:   baseURL,
		StartedAt: start.UTC(),
	}

	for _, c := range list {
		select {
		case <-ctx.Done():
			report.Duration = time.Since(start)
			return report
		default:
		}

		result := s.runCheck(ctx, baseURL, token, c)
		result.Transition = s.stampTransition(c.ID, result.Outcome)
		report.Results = append(report.Results, result)

		if result.Passed() {
			report.Passed++
			s.log.InfoObj("check passed", "check_result", map[string]any{
				"check_id":   c.ID,
				"status":     result.StatusCode,
				"latency_ms": result.Latency.Milliseconds(),
				"body":       result.BodySnippet,
			})
		} else {
			report.Failed++
			s.log.ErrorObj("check failed", "check_result", map[string]any{
				"check_id":   c.ID,
				"status":     result.StatusCode,
				"latency_ms": result.Latency.Milliseconds(),
				"error":      result.Err,
				"body":       result.BodySnippet,
			})
		}
	}

	report.Duration = time.Since(start)
	return report
}

// runCheck issues one request inside its own error boundary.
func (s *Service) runCheck(ctx context.Context, baseURL, token string, c checks.Check) domain.CheckResult {
	result := domain.CheckResult{
		CheckID: c.ID,
		Name:    c.Name,
	}

	headers := map[string]string{}
	if c.Body != "" {
		headers["Content-Type"] = "application/json"
	}
	// No client-side auth enforcement: a missing token still sends the
	// request and the server decides.
	if c.RequiresAuth && token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	start := time.Now()
	resp, err := s.client.Do(ctx, c.Method, baseURL+c.Path, headers, []byte(c.Body))
	result.Latency = time.Since(start)

	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Sprintf("request failed: %v", err)
		return result
	}

	result.StatusCode = resp.StatusCode()
	result.BodySnippet = responseSnippet(resp.Body())

	if verdictErr := verdict(c, resp); verdictErr != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = verdictErr.Error()
		return result
	}

	result.Outcome = domain.OutcomePassed
	return result
}

// verdict decides pass/fail for a received response. A response with an HTTP
// error status is still a response; it only fails the check when the check
// pins an expected status or the probe content is malformed.
func verdict(c checks.Check, resp httpclient.Response) error {
	if c.ExpectStatus > 0 && resp.StatusCode() != c.ExpectStatus {
		return fmt.Errorf("expected status %d, got %d", c.ExpectStatus, resp.StatusCode())
	}
	if c.Kind == checks.KindHTML {
		return verifyHTMLPage(resp.Body())
	}
	return nil
}

// stampTransition records the outcome and classifies it against the previous run.
func (s *Service) stampTransition(checkID string, outcome domain.Outcome) domain.Transition {
	if s.store == nil {
		return ""
	}

	prev, known, err := s.store.LastOutcome(checkID)
	if err != nil {
		s.log.WarnObj("history lookup failed", "history_error", map[string]any{
			"check_id": checkID,
			"error":    err.Error(),
		})
		return ""
	}
	if err := s.store.RecordOutcome(checkID, outcome); err != nil {
		s.log.WarnObj("history record failed", "history_error", map[string]any{
			"check_id": checkID,
			"error":    err.Error(),
		})
	}
	return history.Transition(prev, known, outcome)
}

func runID(baseURL string, start time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d", baseURL, start.UnixNano())))
	return hex.EncodeToString(sum[:8])
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
