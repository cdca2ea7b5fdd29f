package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaSink struct {
	id     string
	writer kafkaWriter
}

func newKafkaSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("sink %q missing kafka configuration", cfg.ID)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	return &kafkaSink{id: cfg.ID, writer: writer}, nil
}

func (s *kafkaSink) ID() string   { return s.id }
func (s *kafkaSink) Type() string { return TypeKafka }
func (s *kafkaSink) Close() error { return s.writer.Close() }

// Publish keys messages by route so one page's traces stay on one partition.
func (s *kafkaSink) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.Route),
		Value: payload,
		Time:  evt.FetchedAt,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message to kafka: %w", err)
	}
	return nil
}
