package main

import (
	"bytes"
	"context"
	"encoding/json"
	"eyesup/domain"
	"eyesup/domain/event"
	"eyesup/sink"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the simulator.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the simulator environment variables.
type Config struct {
	RelayURL string        `env:"RELAY_URL,default=http://localhost:4000"`
	Email    string        `env:"SIMULATOR_EMAIL,default=driver@example.com"`
	Password string        `env:"SIMULATOR_PASSWORD,required=true"`
	Interval time.Duration `env:"SIMULATOR_INTERVAL,default=0s"`
	LogLevel string        `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulator error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in, listens to the live stream and, when an interval is set,
// injects a simulated incoming message on every tick.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &relayClient{base: strings.TrimRight(config.RelayURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	if err := client.login(ctx, config.Email, config.Password); err != nil {
		return exitRuntime, err
	}

	conn, err := client.stream(ctx)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	log.Info("Connected, listening to the relay (Ctrl+C to quit)", "relay", config.RelayURL)

	if config.Interval > 0 {
		go client.simulateEvery(ctx, log, config.Interval)
	}

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		var envelope sink.Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		printEnvelope(envelope)
	}
}

func printEnvelope(envelope sink.Envelope) {
	switch envelope.Type {
	case event.ConnectedType:
		color.Green.Printf("connected as channel %s\n", envelope.ChannelID)
	case event.MessageType:
		m := envelope.Message
		if m.Outgoing {
			color.Cyan.Printf("[%s] me -> %s: %s\n", m.Timestamp.Local().Format(time.TimeOnly), m.To, m.Text)
			return
		}
		color.White.Printf("[%s] %s: %s\n", m.Timestamp.Local().Format(time.TimeOnly), m.From, m.Text)
	case event.AnnouncementType:
		a := envelope.Announcement
		style := color.Yellow
		if a.Priority != domain.PriorityNormal {
			style = color.Red
		}
		style.Printf("  >> (%s, %s) %s\n", a.Lang, a.Priority, a.Spoken)
	}
}

type relayClient struct {
	base  string
	http  *http.Client
	token string
}

func (c *relayClient) login(ctx context.Context, email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	c.token = out.Token
	return nil
}

func (c *relayClient) stream(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.base + "/api/stream")
	if err != nil {
		return nil, err
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	header := http.Header{"Authorization": []string{"Bearer " + c.token}}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("could not open stream at %s: %w", u, err)
	}
	return conn, nil
}

func (c *relayClient) simulateEvery(ctx context.Context, log *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/simulate", nil)
			if err != nil {
				return
			}
			req.Header.Set("Authorization", "Bearer "+c.token)
			resp, err := c.http.Do(req)
			if err != nil {
				log.Warn("Simulate failed", "error", err)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				log.Warn("Simulate rejected", "status", resp.StatusCode)
			}
		}
	}
}
