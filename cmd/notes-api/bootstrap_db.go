package main

import (
	"context"
	"fmt"

	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/domain/session"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/repository/memory"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	redisx "github.com/NordCoder/Noteboard/internal/repository/redis"
	"go.uber.org/zap"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}

// refreshStore is the selected backend plus its liveness probe and cleanup.
type refreshStore struct {
	session.RefreshStore
	health obs.HealthCheck
	close  func() error
}

func initRefreshStore(ctx context.Context, cfg *config.Config, db *pg.DB, logger *zap.Logger) (*refreshStore, error) {
	noop := func() error { return nil }
	switch cfg.Auth.RefreshStore {
	case config.RefreshStoreRedis:
		client, err := redisx.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s := redisx.NewRefreshStore(client, cfg.Redis.KeyPrefix)
		return &refreshStore{RefreshStore: s, health: s.Ping, close: client.Close}, nil
	case config.RefreshStorePostgres:
		s := pg.NewRefreshStore(db, nil)
		return &refreshStore{RefreshStore: s, health: s.Ping, close: noop}, nil
	case config.RefreshStoreMemory:
		logger.Warn("in-memory refresh store: sessions are lost on restart and not shared between replicas")
		s := memory.NewRefreshStore(nil)
		return &refreshStore{RefreshStore: s, health: s.Ping, close: noop}, nil
	default:
		return nil, fmt.Errorf("unknown refresh store %q", cfg.Auth.RefreshStore)
	}
}
