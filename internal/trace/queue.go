package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// sendFunc delivers one encoded event and returns the provider's message id.
type sendFunc func(ctx context.Context, evt Event, payload []byte) (string, error)

// queueSink publishes to a managed queue or topic. Provider files supply
// send and, when they hold a connection, close.
type queueSink struct {
	id       string
	provider string
	send     sendFunc
	close    func() error
}

func newQueueSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	q := cfg.Queue
	s := &queueSink{id: cfg.ID, provider: q.Provider}

	switch q.Provider {
	case QueueProviderAWSSQS:
		awsCfg, err := loadAWSConfig(ctx, q.SQS.Region, q.SQS.AccessKeyID, q.SQS.SecretAccessKey)
		if err != nil {
			return nil, err
		}
		s.send = sqsSend(newSQSClient(awsCfg), q.SQS.QueueURL)
	case QueueProviderAWSSNS:
		awsCfg, err := loadAWSConfig(ctx, q.SNS.Region, q.SNS.AccessKeyID, q.SNS.SecretAccessKey)
		if err != nil {
			return nil, err
		}
		s.send = snsSend(newSNSClient(awsCfg), q.SNS.TopicARN)
	case QueueProviderGCP:
		send, closeFn, err := pubsubSend(ctx, q.GCP)
		if err != nil {
			return nil, err
		}
		s.send, s.close = send, closeFn
	default:
		return nil, fmt.Errorf("queue provider %q is not supported", q.Provider)
	}
	return s, nil
}

func (s *queueSink) ID() string   { return s.id }
func (s *queueSink) Type() string { return TypeQueue }

func (s *queueSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *queueSink) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msgID, err := s.send(ctx, evt, payload)
	if err != nil {
		return fmt.Errorf("%s publish: %w", s.provider, err)
	}
	slog.Debug("queue sink accepted event", "provider", s.provider, "message_id", msgID, "event_id", evt.ID)
	return nil
}
