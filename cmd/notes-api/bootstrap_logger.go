package main

import (
	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	"go.uber.org/zap"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(cfg.AsLoggerConfig())
}
