package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env         string `env:"ENV" env-default:"prod"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	HTTP        HTTPConfig
	Storage     StorageConfig
	CORS        CORSConfig
	Log         LogConfig
}

// LogConfig overrides the level implied by Env when Level is set.
type LogConfig struct {
	Level   string `env:"LOG_LEVEL"`
	Service string `env:"LOG_SERVICE" env-default:"todo-server"`
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `env:"HTTP_PORT" env-default:"8000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StorageConfig struct {
	MaxConns       int32         `env:"STORAGE_MAX_CONNS" env-default:"10"`
	ConnectTimeout time.Duration `env:"STORAGE_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"STORAGE_PING_TIMEOUT" env-default:"10s"`
}

// CORSConfig is disabled when AllowOrigins is empty.
type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" env-separator:","`
}

func (c CORSConfig) Enabled() bool {
	return len(c.AllowOrigins) > 0
}
