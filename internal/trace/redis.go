package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisLister interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Close() error
}

// redisSink pushes events onto a list for a downstream consumer to BRPOP.
type redisSink struct {
	id     string
	key    string
	client redisLister
}

func newRedisSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("sink %q missing redis configuration", cfg.ID)
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		opt = &redis.Options{Addr: cfg.Redis.URL}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &redisSink{id: cfg.ID, key: cfg.Redis.Key, client: client}, nil
}

func (s *redisSink) ID() string   { return s.id }
func (s *redisSink) Type() string { return TypeRedis }
func (s *redisSink) Close() error { return s.client.Close() }

func (s *redisSink) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("push to redis list %s: %w", s.key, err)
	}
	return nil
}
