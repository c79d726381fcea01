package obs

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	App    string `mapstructure:"app"`
	Env    string `mapstructure:"env"`
	Ver    string `mapstructure:"version"`
}

// parseLevel maps a config string to a zap level; unknown values mean info.
func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (c LogConfig) zapConfig() zap.Config {
	zc := zap.NewProductionConfig()
	if c.Pretty {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(parseLevel(c.Level))
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc
}

// NewLogger builds the process logger and installs it as zap's global.
// Every entry carries the service name, env and version.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	base := []zap.Field{zap.String("service", c.App)}
	if c.Env != "" {
		base = append(base, zap.String("env", c.Env))
	}
	if c.Ver != "" {
		base = append(base, zap.String("version", c.Ver))
	}
	l, err := c.zapConfig().Build(zap.Fields(base...))
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
