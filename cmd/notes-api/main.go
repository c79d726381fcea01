package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("NOTES_API_CONFIG"), "path to the yaml config")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting notes-api",
		zap.String("env", cfg.App.Env),
		zap.String("ver", cfg.App.Version),
		zap.String("refresh_store", cfg.Auth.RefreshStore),
		zap.Bool("cookie_secure", cfg.Auth.CookieSecure),
	)

	otelShutdown, err := initOTel(rootCtx, cfg)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := initDB(rootCtx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	store, err := initRefreshStore(rootCtx, cfg, db, logger)
	if err != nil {
		logger.Fatal("refresh store", zap.Error(err))
	}
	defer func() { _ = store.close() }()

	a, err := wiring(cfg, db, store, logger)
	if err != nil {
		logger.Fatal("wiring", zap.Error(err))
	}
	if a.producer != nil {
		defer func() { _ = a.producer.Close() }()
	}

	grpcServer, healthSrv, grpcLn, err := buildGRPCServer(cfg, a.authUC)
	if err != nil {
		logger.Fatal("build grpc", zap.Error(err))
	}
	grpcErrCh := make(chan error, 1)
	go func() { grpcErrCh <- serveGRPC(grpcServer, grpcLn, cfg, logger) }()

	httpSrv, err := buildHTTPServer(cfg, logger, a.ctrls, obs.AllHealthy(db.Ping, store.health))
	if err != nil {
		logger.Fatal("build http", zap.Error(err))
	}
	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, logger) }()

	relayCtx, relayCancel := context.WithCancel(rootCtx)
	var relayWG sync.WaitGroup
	if a.relay != nil {
		relayWG.Add(1)
		go func() {
			defer relayWG.Done()
			a.relay.Run(relayCtx)
		}()
	}

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal")
	case err := <-grpcErrCh:
		if err != nil {
			logger.Error("grpc serve", zap.Error(err))
		}
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	_ = httpSrv.Shutdown(shCtx)
	gracefulStopGRPC(grpcServer, healthSrv)
	relayCancel()
	relayWG.Wait()

	logger.Info("bye")
}
