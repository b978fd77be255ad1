package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RELAY_URL points at a running relay. The suites are skipped when empty.
	RelayURL string `envconfig:"RELAY_URL"`
	GrpcAddr string `envconfig:"GRPC_ADDR" default:"localhost:4001"`
	Email    string `envconfig:"E2E_EMAIL" default:"e2e@example.com"`
	Password string `envconfig:"E2E_PASSWORD" default:"ComplexPass123!"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
