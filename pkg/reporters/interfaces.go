package reporters

import "context"

// Reporter delivers run reports to a downstream sink (log, HTTP, SQS, ...).
type Reporter interface {
	ID() string
	Type() string
	Send(ctx context.Context, rep Report) error
}
