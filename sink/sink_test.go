package sink

import (
	"context"
	"encoding/json"
	"eyesup/domain"
	"eyesup/domain/event"
	"eyesup/mocks"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLiveSink_Buffer_Full_Is_A_Failed_Write(t *testing.T) {
	req := require.New(t)
	sink := NewLiveSink(1)
	ctx := context.Background()

	req.NoError(sink.Consume(ctx, event.Connected{ChannelID: "a"}))
	req.ErrorIs(sink.Consume(ctx, event.MessageIngested{}), errBufferFull)

	evt := <-sink.Events()
	req.Equal(event.ConnectedType, evt.EventType())
	select {
	case <-sink.Done():
	default:
		req.Fail("a sink that missed an event should be closed")
	}
}

func TestLiveSink_Closed_Rejects_Events(t *testing.T) {
	req := require.New(t)
	sink := NewLiveSink(4)
	sink.Close()
	sink.Close()

	req.Error(sink.Consume(context.Background(), event.MessageIngested{}))
	select {
	case <-sink.Done():
	default:
		req.Fail("done should be closed")
	}
}

func TestSearchSink_Indexes_Messages_Only(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	index := mocks.NewMockIIndex(ctrl)
	message := domain.Message{ID: uuid.New(), From: "Mom", Text: "hello"}

	index.EXPECT().Index(message).Return(nil).Times(1)

	sink := NewSearchSink(index)
	require.NoError(t, sink.Consume(context.Background(), event.MessageIngested{Message: message}))
	require.NoError(t, sink.Consume(context.Background(), event.Announcement{MessageID: message.ID}))
}

func TestSearchSink_Surfaces_Index_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	index := mocks.NewMockIIndex(ctrl)
	index.EXPECT().Index(gomock.Any()).Return(fmt.Errorf("index closed"))

	err := NewSearchSink(index).Consume(context.Background(), event.MessageIngested{})
	require.EqualError(t, err, "index closed")
}

func TestToEnvelope_Json(t *testing.T) {
	req := require.New(t)
	id := uuid.MustParse("0190a6f4-7c2e-7000-8000-000000000001")
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	connected, err := json.Marshal(ToEnvelope(event.Connected{ChannelID: "c1", At: at}))
	req.NoError(err)
	req.JSONEq(`{"type":"connected","channelId":"c1"}`, string(connected))

	message, err := json.Marshal(ToEnvelope(event.MessageIngested{Message: domain.Message{
		ID: id, From: "Mom", Text: "Are you driving?", Timestamp: at,
	}}))
	req.NoError(err)
	req.JSONEq(`{"type":"message","message":{"id":"0190a6f4-7c2e-7000-8000-000000000001","from":"Mom","text":"Are you driving?","isGroup":false,"outgoing":false,"timestamp":"2024-05-01T10:00:00Z"}}`, string(message))

	announcement, err := json.Marshal(ToEnvelope(event.Announcement{MessageID: id, From: "Mom", Spoken: "Mom says: hi", Lang: "en-US", Priority: domain.PriorityNormal, At: at}))
	req.NoError(err)
	req.JSONEq(`{"type":"announcement","announcement":{"messageId":"0190a6f4-7c2e-7000-8000-000000000001","from":"Mom","spoken":"Mom says: hi","lang":"en-US","priority":"normal","at":"2024-05-01T10:00:00Z"}}`, string(announcement))
}

func TestRedisSink_Unreachable_Server_Returns_Error(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	sink := NewRedisSink(rdb, "eyesup:events", logs.GetLoggerFromLevel(slog.LevelDebug))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := sink.Consume(ctx, event.MessageIngested{})
	require.ErrorContains(t, err, "failed to publish event")
}
