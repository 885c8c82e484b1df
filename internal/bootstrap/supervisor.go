package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/mesh-router/internal/gateway"
	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/eleven-am/mesh-router/internal/supervisor"
	"go.uber.org/fx"
)

func ProvideSupervisor(cfg *Config, coord *mesh.Coordinator, hs *gateway.HealthServer, logger *slog.Logger) (*supervisor.Supervisor, error) {
	return supervisor.New(supervisor.Config{
		Schedule:      cfg.HealthSchedule,
		EscalateAfter: cfg.EscalateAfter,
	}, coord, hs, logger)
}

func StartSupervisor(lc fx.Lifecycle, s *supervisor.Supervisor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop()
		},
	})
}

var SupervisorModule = fx.Options(
	fx.Provide(ProvideSupervisor),
	fx.Invoke(StartSupervisor),
)
