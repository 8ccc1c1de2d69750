package reporters

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// gcpPubSubReporter implements the Reporter interface for Google Cloud Pub/Sub.
type gcpPubSubReporter struct {
	id    string
	typ   string
	topic *pubsub.Topic
	log   Logger
}

// newGCPPubSubReporter creates a new Pub/Sub reporter with the given configuration.
func newGCPPubSubReporter(ctx context.Context, cfg ReporterConfig, log Logger) (Reporter, error) {
	if cfg.GCP == nil {
		return nil, fmt.Errorf("reporter %q missing gcppubsub configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.GCP.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCP.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.GCP.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubReporter{
		id:    cfg.ID,
		typ:   TypeGCPPubSub,
		topic: client.Topic(cfg.GCP.Topic),
		log:   ensureLogger(log),
	}, nil
}

func (g *gcpPubSubReporter) ID() string   { return g.id }
func (g *gcpPubSubReporter) Type() string { return g.typ }

// Send publishes the report to the configured Pub/Sub topic.
func (g *gcpPubSubReporter) Send(ctx context.Context, rep Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	result := g.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"run_id": rep.Run.RunID,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		g.log.ErrorObj("pubsub reporter publish failed", "reporter_pubsub_error", map[string]any{
			"reporter_id": g.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	g.log.DebugObj("pubsub reporter delivered report", "reporter_pubsub_delivery", map[string]any{
		"reporter_id": g.id,
	})
	return nil
}
