package bootstrap

import (
	"context"
	"log/slog"
	"net"

	"github.com/eleven-am/mesh-router/internal/gateway"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func NewGRPCServer() *grpc.Server {
	return grpc.NewServer()
}

func RegisterHealthService(server *grpc.Server, hs *gateway.HealthServer) {
	hs.Register(server)
	reflection.Register(server)
}

func StartGRPCServer(lc fx.Lifecycle, server *grpc.Server, hs *gateway.HealthServer, cfg *Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("gRPC server starting", "addr", cfg.GRPCAddr)
				if err := server.Serve(lis); err != nil {
					logger.Error("gRPC server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hs.Shutdown()
			server.GracefulStop()
			return nil
		},
	})
}

var GRPCModule = fx.Options(
	fx.Provide(NewGRPCServer),
	fx.Invoke(RegisterHealthService),
	fx.Invoke(StartGRPCServer),
)
