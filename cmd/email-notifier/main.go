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

	config "github.com/NordCoder/Noteboard/internal/config/email-notifier"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/repository/kafka"
	pg "github.com/NordCoder/Noteboard/internal/repository/postgres"
	notifier "github.com/NordCoder/Noteboard/internal/services/email-notifier"
	"go.uber.org/zap"
)

func wiring(db *pg.DB, cfg *config.Config, cons *kafka.Consumer, l *zap.Logger) *notifier.Runner {
	uc := &notifier.Handler{
		Users: pg.NewUserRepo(db),
		Store: pg.NewNotificationRepo(db),
		Out:   notifier.NewMailer(cfg.SMTP).WithLogger(l),
		Log:   l,
	}
	return notifier.NewRunner(l, cons, uc)
}

func main() {
	configPath := flag.String("config", os.Getenv("EMAIL_NOTIFIER_CONFIG"), "path to the yaml config")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	l.Info("starting email-notifier",
		zap.Any("kafka_in", cfg.In),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
		zap.String("smtp_addr", cfg.SMTP.Addr),
	)

	// otel
	otelCloser, err := obs.SetupOTel(rootCtx, &cfg.OTEL)
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// db
	db, err := pg.NewDB(rootCtx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	l.Info("db connected")

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, db.Ping, l)

	// kafka
	consCfg := cfg.In.AsConsumerConfig()
	consCfg.Logger = l
	cons := kafka.BootstrapConsumer(rootCtx, consCfg, l)
	defer func() { _ = cons.Close() }()

	runner := wiring(db, cfg, cons, l)
	errCh := make(chan error, 1)
	go func() {
		l.Info("consumer starting")
		errCh <- runner.Run(rootCtx)
	}()

	select {
	case <-rootCtx.Done():
		l.Info("shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("consumer error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
