package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`

	HTTPAddress    string `env:"HTTP_ADDRESS,default=:4000"`
	GRPCAddress    string `env:"GRPC_ADDRESS,default=:4001"`
	DebugAddress   string `env:"DEBUG_ADDRESS,default=localhost:8081"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	AutoProvision     bool          `env:"AUTO_PROVISION,default=true"`

	BufferSize           int           `env:"BUFFER_SIZE,default=256"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	PongTimeout          time.Duration `env:"PONG_TIMEOUT,default=60s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s"`
	RecentCapacity       int           `env:"RECENT_CAPACITY,default=50"`

	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisStream   string `env:"REDIS_STREAM,default=eyesup:inbound"`
	RedisChannel  string `env:"REDIS_CHANNEL,default=eyesup:events"`
	RedisConsumer string `env:"REDIS_CONSUMER,default=relay-1"`
}

// Validate rejects values the relay cannot run with.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.BufferSize <= 0 || c.ConnectionBufferSize <= 0 {
		return fmt.Errorf("BUFFER_SIZE and CONNECTION_BUFFER_SIZE must be positive")
	}
	if c.LimitMessages != nil && *c.LimitMessages <= 0 {
		return fmt.Errorf("LIMIT_MESSAGES must be positive, got %d", *c.LimitMessages)
	}
	return nil
}

// Origins splits the comma separated ALLOWED_ORIGINS. Empty allows every origin.
func (c Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// RedisEnabled is false when no address is configured: the Redis stream
// consumer and the pub/sub sink are then not started.
func (c Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}
