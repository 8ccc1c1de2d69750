package reporters

import (
	"context"
)

// logReporter writes run reports to the harness's own structured log. It is
// the default sink when nothing else is configured.
type logReporter struct {
	id  string
	typ string
	log Logger
}

func newLogReporter(_ context.Context, cfg ReporterConfig, log Logger) (Reporter, error) {
	return &logReporter{
		id:  cfg.ID,
		typ: TypeLog,
		log: ensureLogger(log),
	}, nil
}

func (l *logReporter) ID() string   { return l.id }
func (l *logReporter) Type() string { return l.typ }

func (l *logReporter) Send(_ context.Context, rep Report) error {
	payload := map[string]any{
		"run_id":   rep.Run.RunID,
		"base_url": rep.Run.BaseURL,
		"passed":   rep.Run.Passed,
		"failed":   rep.Run.Failed,
		"results":  rep.Run.Results,
	}
	if rep.Run.Healthy() {
		l.log.InfoObj("smoke run report", "run_report", payload)
	} else {
		l.log.WarnObj("smoke run report", "run_report", payload)
	}
	return nil
}
