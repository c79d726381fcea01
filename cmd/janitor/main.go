package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/Noteboard/internal/config/janitor"
	"github.com/NordCoder/Noteboard/internal/obs"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	"github.com/NordCoder/Noteboard/internal/services/janitor"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("JANITOR_CONFIG"), "path to the yaml config")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()
	l.Info("starting janitor",
		zap.Duration("tick", cfg.Sweep.Tick),
		zap.Duration("outbox_retention", cfg.Sweep.OutboxRetention),
		zap.String("metrics_addr", cfg.Sweep.MetricsAddr),
	)

	// db
	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	ms := obs.BootstrapMetricsServer(cfg.Sweep.MetricsAddr, db.Ping, l)

	// wiring
	uc := &janitor.Usecase{
		Tokens:    pg.NewRefreshStore(db, nil),
		Outbox:    pg.NewOutboxRepo(db),
		Retention: cfg.Sweep.OutboxRetention,
	}
	runner := janitor.New(l, uc, cfg.Sweep.Tick)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
