package server

import (
	"eyesup/sink"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const readLimit = 4 * 1024

// stream upgrades the request and holds one live channel for as long as the
// client stays connected. Unsubscribe is deferred so the hub never keeps a
// dead channel around.
func (s *RelayServer) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	live := sink.NewLiveSink(s.options.ConnectionBufferSize)
	defer live.Close()
	id, err := s.relay.Subscribe(live)
	if err != nil {
		s.log.Warn("Listener refused", "error", err)
		return
	}
	defer s.relay.Unsubscribe(id)
	s.log.Debug("Listener connected", "channel", id)

	go s.readPump(conn, live)
	if err := s.writePump(conn, live); err != nil {
		s.log.Debug("Listener disconnected", "channel", id, "error", err)
	}
}

// readPump only serves pongs and close frames. Any read error ends the channel.
func (s *RelayServer) readPump(conn *websocket.Conn, live *sink.LiveSink) {
	defer live.Close()
	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(s.options.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.options.PongTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *RelayServer) writePump(conn *websocket.Conn, live *sink.LiveSink) error {
	ticker := time.NewTicker(s.options.PongTimeout * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-live.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		case evt := <-live.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))
			if err := conn.WriteJSON(sink.ToEnvelope(evt)); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.options.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
