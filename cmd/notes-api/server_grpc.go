package main

import (
	"net"

	config "github.com/NordCoder/Noteboard/internal/config/notes-api"
	"github.com/NordCoder/Noteboard/internal/obs"
	"github.com/NordCoder/Noteboard/internal/services/notes-api/auth"
	grpcprometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// buildGRPCServer serves health and reflection only; every other method is
// behind the bearer interceptor.
func buildGRPCServer(cfg *config.Config, authUC *auth.Usecase) (*grpc.Server, *health.Server, net.Listener, error) {
	opts := obs.GRPCServerOpts()
	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			grpcprometheus.UnaryServerInterceptor,
			auth.UnaryAuthInterceptor(authUC.ParseAccess),
		),
		grpc.ChainStreamInterceptor(
			grpcprometheus.StreamServerInterceptor,
			auth.StreamAuthInterceptor(authUC.ParseAccess),
		),
	)

	grpcServer := grpc.NewServer(opts...)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	grpcprometheus.EnableHandlingTimeHistogram()
	grpcprometheus.Register(grpcServer)

	ln, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return nil, nil, nil, err
	}
	return grpcServer, hs, ln, nil
}

func serveGRPC(s *grpc.Server, ln net.Listener, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("grpc listening", zap.String("addr", cfg.Server.GRPCAddr))
	return s.Serve(ln)
}

func gracefulStopGRPC(s *grpc.Server, hs *health.Server) {
	hs.Shutdown()
	s.GracefulStop()
}
