package sink

import (
	"context"
	"encoding/json"
	"eyesup/domain/event"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisSink republishes relay events on a Redis pub/sub channel so other
// processes (a car head unit, a second screen) can follow along.
type RedisSink struct {
	rdb     *redis.Client
	channel string
	log     *slog.Logger
}

func NewRedisSink(rdb *redis.Client, channel string, log *slog.Logger) RedisSink {
	return RedisSink{rdb: rdb, channel: channel, log: log}
}

func (s RedisSink) Consume(ctx context.Context, e event.DomainEvent) error {
	data, err := json.Marshal(ToEnvelope(e))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.rdb.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	s.log.Debug("Event published", "channel", s.channel, "type", e.EventType())
	return nil
}
