package e2e

import (
	"context"
	"eyesup/domain/event"
	"eyesup/runtime"
	"eyesup/sink"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type testRelaySuite struct {
	BaseRelaySuite
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, &testRelaySuite{})
}

func (s *testRelaySuite) TestIncomingReachesLiveStream() {
	sender := "e2e-" + uuid.NewString()[:8]

	s.Run("Step 0: Relay reports serving over gRPC", func() {
		s.WithHealth("Checking relay health", func(ctx context.Context, client healthpb.HealthClient) {
			resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: "eyesup.Relay"})
			s.Require().NoError(err)
			s.Require().Equal(healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
		})
	})

	conn := s.Stream("Opening live stream")
	defer func() { _ = conn.Close() }()

	s.Run("Step 1: Connected comes first", func() {
		var envelope sink.Envelope
		s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
		s.Require().NoError(conn.ReadJSON(&envelope))
		s.Require().Equal(event.ConnectedType, envelope.Type)
		s.Require().NotEmpty(envelope.ChannelID)
	})

	var result runtime.Result
	s.Run("Step 2: Post an incoming message", func() {
		status := s.Call("Posting incoming", http.MethodPost, "/api/incoming",
			map[string]string{"from": sender, "text": "running late"}, &result)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().Equal(sender, result.Message.From)
	})

	s.Run("Step 3: The message is pushed on the stream", func() {
		for {
			var envelope sink.Envelope
			s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
			s.Require().NoError(conn.ReadJSON(&envelope))
			if envelope.Type == event.MessageType && envelope.Message.ID == result.Message.ID {
				s.Require().Equal("running late", envelope.Message.Text)
				return
			}
		}
	})

	s.Run("Step 4: History contains the message", func() {
		var messages []map[string]any
		status := s.Call("Reading history", http.MethodGet, "/api/messages", nil, &messages)
		s.Require().Equal(http.StatusOK, status)
		found := false
		for _, m := range messages {
			if m["id"] == result.Message.ID.String() {
				found = true
			}
		}
		s.Require().True(found, "incoming message missing from history")
	})
}

func (s *testRelaySuite) TestMissingFieldsAreRejected() {
	status := s.Call("Posting invalid incoming", http.MethodPost, "/api/incoming",
		map[string]string{"from": ""}, nil)
	s.Require().Equal(http.StatusBadRequest, status)
}
