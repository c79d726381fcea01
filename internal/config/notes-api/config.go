package notes_api_config

import (
	"time"

	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/outbox"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	redisx "github.com/NordCoder/Noteboard/internal/repository/redis"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// IsDev reports whether the process runs in a local, non-TLS environment.
func (a App) IsDev() bool {
	switch a.Env {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	APIPrefix       string        `mapstructure:"api_prefix"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    "noteboard/" + c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

const (
	RefreshStoreRedis    = "redis"
	RefreshStorePostgres = "postgres"
	RefreshStoreMemory   = "memory"
)

type Auth struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	AccessTTL    time.Duration `mapstructure:"access_ttl"`
	RefreshTTL   time.Duration `mapstructure:"refresh_ttl"`
	RefreshStore string        `mapstructure:"refresh_store"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieDomain string        `mapstructure:"cookie_domain"`
	CookiePath   string        `mapstructure:"cookie_path"`
	BcryptCost   int           `mapstructure:"bcrypt_cost"`

	// CookieSecure is derived from app.env, never read from the file.
	CookieSecure bool `mapstructure:"-"`
}

type Kafka struct {
	Enable  bool     `mapstructure:"enable"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Widgets struct {
	GitHubBaseURL  string        `mapstructure:"github_base_url"`
	PokeAPIBaseURL string        `mapstructure:"pokeapi_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

type Config struct {
	App     App           `mapstructure:"app"`
	Server  Server        `mapstructure:"server"`
	DB      pg.Config     `mapstructure:"db"`
	Redis   redisx.Config `mapstructure:"redis"`
	OTEL    OTEL          `mapstructure:"otel"`
	Log     Log           `mapstructure:"log"`
	Auth    Auth          `mapstructure:"auth"`
	Kafka   Kafka         `mapstructure:"kafka"`
	Outbox  outbox.Config `mapstructure:"outbox"`
	Widgets Widgets       `mapstructure:"widgets"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
