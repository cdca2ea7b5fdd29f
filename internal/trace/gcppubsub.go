package trace

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubSend opens a client for the configured project. The returned close
// flushes pending publishes before closing the client.
func pubsubSend(ctx context.Context, cfg *GCPPubSubConfig) (sendFunc, func() error, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create pubsub client: %w", err)
	}
	topic := client.Topic(cfg.Topic)

	send := func(ctx context.Context, evt Event, payload []byte) (string, error) {
		return topic.Publish(ctx, &pubsub.Message{
			Data:       payload,
			Attributes: map[string]string{"route": evt.Route},
		}).Get(ctx)
	}
	closeFn := func() error {
		topic.Stop()
		return client.Close()
	}
	return send, closeFn, nil
}
