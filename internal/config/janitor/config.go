package janitor_config

import (
	"time"

	"github.com/NordCoder/Noteboard/internal/obs"
	pginfra "github.com/NordCoder/Noteboard/internal/repository/postgres"
)

type Sweep struct {
	Tick            time.Duration `mapstructure:"tick"`
	OutboxRetention time.Duration `mapstructure:"outbox_retention"`
	MetricsAddr     string        `mapstructure:"metrics_addr"`
}

type Config struct {
	Env      string         `mapstructure:"env"`
	DB       pginfra.Config `mapstructure:"db"`
	Sweep    Sweep          `mapstructure:"sweep"`
	LogLevel string         `mapstructure:"log_level"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{Level: c.LogLevel, App: "noteboard/janitor", Env: c.Env}
}
