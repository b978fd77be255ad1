package workers

import (
	"context"
	stderrors "errors"
	"eyesup/domain"
	"eyesup/errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	inboundConsumerGroup = "eyesup-relay"
	inboundReadBlock     = 5 * time.Second
	inboundRetryDelay    = time.Second
	inboundBatchSize     = 16
)

// IncomingHandler ingests one message read from the inbound stream.
type IncomingHandler func(ctx context.Context, cmd domain.IncomingCommand) error

// InboundStream is the part of the Redis client the consumer needs.
type InboundStream interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

// RedisInboundWorker reads external messages from a Redis stream through a
// consumer group. Entries are acknowledged once ingested, or when they can
// never be ingested (invalid payload). A storage failure leaves the entry
// pending so it is read again on the next start.
type RedisInboundWorker struct {
	log      *slog.Logger
	rdb      InboundStream
	stream   string
	consumer string
	handle   IncomingHandler
}

func NewRedisInboundWorker(log *slog.Logger, rdb InboundStream, stream, consumer string, handle IncomingHandler) *RedisInboundWorker {
	return &RedisInboundWorker{log: log, rdb: rdb, stream: stream, consumer: consumer, handle: handle}
}

func (w *RedisInboundWorker) Run(ctx context.Context) error {
	if err := w.ensureGroup(ctx); err != nil {
		return err
	}
	w.replayPending(ctx)
	for {
		if ctx.Err() != nil {
			w.log.Debug("Context done, stopping redis inbound consumer")
			return nil
		}
		_, err := w.read(ctx, ">", inboundReadBlock)
		if err == nil || stderrors.Is(err, redis.Nil) || ctx.Err() != nil {
			continue
		}
		w.log.Warn("Error reading inbound stream", "stream", w.stream, "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(inboundRetryDelay):
		}
	}
}

func (w *RedisInboundWorker) ensureGroup(ctx context.Context) error {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, inboundConsumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// replayPending walks the entries delivered to this consumer but never
// acknowledged, one batch at a time. Each batch starts after the last entry
// of the previous one, so entries left pending again are not read twice.
func (w *RedisInboundWorker) replayPending(ctx context.Context) {
	after := "0"
	for {
		last, err := w.read(ctx, after, 0)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Warn("Could not replay pending inbound entries", "error", err)
			}
			return
		}
		if last == "" {
			return
		}
		after = last
	}
}

// read handles one batch and returns the id of its last entry, empty when
// the batch was empty.
func (w *RedisInboundWorker) read(ctx context.Context, id string, block time.Duration) (string, error) {
	args := &redis.XReadGroupArgs{
		Group:    inboundConsumerGroup,
		Consumer: w.consumer,
		Streams:  []string{w.stream, id},
		Count:    inboundBatchSize,
		Block:    block,
	}
	if block == 0 {
		// a zero Block would wait forever
		args.Block = -1
	}
	streams, err := w.rdb.XReadGroup(ctx, args).Result()
	if err != nil {
		return "", err
	}
	var last string
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			w.handleMessage(ctx, msg)
			last = msg.ID
		}
	}
	return last, nil
}

func (w *RedisInboundWorker) handleMessage(ctx context.Context, msg redis.XMessage) {
	cmd, err := ToIncomingCommand(msg.Values)
	if err == nil {
		err = w.handle(ctx, cmd)
	}
	switch {
	case err == nil:
		w.log.Debug("Inbound entry ingested", "entry", msg.ID, "from", cmd.From)
	case errors.Is(err, errors.ErrValidation), errors.Is(err, errors.ErrInvalidPayload):
		w.log.Warn("Dropping invalid inbound entry", "entry", msg.ID, "error", err)
	default:
		w.log.Error("Inbound entry left pending", "entry", msg.ID, "error", err)
		return
	}
	if err := w.rdb.XAck(ctx, w.stream, inboundConsumerGroup, msg.ID).Err(); err != nil {
		w.log.Warn("Could not acknowledge inbound entry", "entry", msg.ID, "error", err)
	}
}

// ToIncomingCommand reads the from, text and isGroup fields of a stream entry.
func ToIncomingCommand(values map[string]any) (domain.IncomingCommand, error) {
	from, ok := values["from"].(string)
	if !ok {
		return domain.IncomingCommand{}, fmt.Errorf("%w: missing from", errors.ErrInvalidPayload)
	}
	text, ok := values["text"].(string)
	if !ok {
		return domain.IncomingCommand{}, fmt.Errorf("%w: missing text", errors.ErrInvalidPayload)
	}
	cmd := domain.IncomingCommand{From: from, Text: text}
	if raw, ok := values["isGroup"].(string); ok && raw != "" {
		isGroup, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.IncomingCommand{}, fmt.Errorf("%w: isGroup %q", errors.ErrInvalidPayload, raw)
		}
		cmd.IsGroup = isGroup
	}
	return cmd, nil
}
