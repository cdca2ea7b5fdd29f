package trace

import (
	"context"
	"fmt"
)

// Sink receives trace events.
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Builder creates a Sink from a validated config entry.
type Builder func(ctx context.Context, cfg SinkConfig) (Sink, error)

// Builders maps a sink type to its constructor.
type Builders map[string]Builder

func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:  newHTTPSink,
		TypeRedis: newRedisSink,
		TypeKafka: newKafkaSink,
		TypeQueue: newQueueSink,
	}
}

// BuildAll creates a sink per config. Sinks built before a failure are closed.
func BuildAll(ctx context.Context, builders Builders, cfgs []SinkConfig) ([]Sink, error) {
	sinks := make([]Sink, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := builders[cfg.Type]
		if !ok {
			closeAll(sinks)
			return nil, fmt.Errorf("build sink %q: no builder for type %q", cfg.ID, cfg.Type)
		}
		s, err := build(ctx, cfg)
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("build sink %q: %w", cfg.ID, err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

func closeAll(sinks []Sink) {
	for _, s := range sinks {
		s.Close()
	}
}
