package internal

import (
	"testing"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults_From_Environment(t *testing.T) {
	req := require.New(t)
	environ := env.EnvSet{
		"BADGER_FILEPATH": "/tmp/badger",
		"BLUGE_FILEPATH":  "/tmp/bluge",
		"JWT_SECRET":      "0123456789abcdef",
		"ALLOWED_ORIGINS": "http://localhost:3000, ,http://car.local",
	}

	var config Config
	err := env.Unmarshal(environ, &config)

	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal("INFO", config.LogLevel)
	req.Equal(":4000", config.HTTPAddress)
	req.Equal(64, config.ConnectionBufferSize)
	req.True(config.AutoProvision)
	req.False(config.RedisEnabled())
	req.Nil(config.LimitMessages)
	req.Equal([]string{"http://localhost:3000", "http://car.local"}, config.Origins())
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)
	zero := 0
	valid := Config{JWTSecret: "0123456789abcdef", BufferSize: 1, ConnectionBufferSize: 1}
	req.NoError(valid.Validate())

	short := valid
	short.JWTSecret = "secret"
	req.Error(short.Validate())

	limited := valid
	limited.LimitMessages = &zero
	req.Error(limited.Validate())

	err := env.Unmarshal(env.EnvSet{}, &Config{})
	req.Error(err)
}
